package dialog

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// DateKind tags which representation a DateValue carries.
type DateKind int

const (
	KindTimed DateKind = iota
	KindAllDay
)

// DateValue is one boundary (start or end) of the draft, stored as a
// local-wall-clock string in the format selected by its kind. Modeling the
// two formats as a tagged variant keeps the conversion in one place instead
// of string-format inference at every call site.
type DateValue struct {
	Kind DateKind
	Raw  string
}

func NewDateValue(t time.Time, kind DateKind) DateValue {
	if kind == KindAllDay {
		return DateValue{Kind: KindAllDay, Raw: t.Format(dateLayout)}
	}
	return DateValue{Kind: KindTimed, Raw: t.Format(dateTimeLayout)}
}

// Time parses the stored string under its own kind, in local time.
func (v DateValue) Time() (time.Time, error) {
	layout := dateTimeLayout
	if v.Kind == KindAllDay {
		layout = dateLayout
	}
	t, err := time.ParseInLocation(layout, v.Raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s value %q: %w", v.kindName(), v.Raw, err)
	}
	return t, nil
}

// Convert reparses the value under its current kind and reformats it under
// the target kind. Converting timed to all-day drops the time of day;
// converting all-day to timed yields midnight, clearly a placeholder. The
// date never drifts under repeated conversion.
func (v DateValue) Convert(to DateKind) (DateValue, error) {
	if v.Kind == to {
		return v, nil
	}
	t, err := v.Time()
	if err != nil {
		return DateValue{}, err
	}
	return NewDateValue(t, to), nil
}

func (v DateValue) kindName() string {
	if v.Kind == KindAllDay {
		return "date"
	}
	return "date-time"
}

// Mode is the dialog state.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeView
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeView:
		return "view"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Draft is the transient, dialog-local state of the create/edit form. It is
// created when a slot, day, or event is clicked and destroyed on save,
// delete, or cancel.
type Draft struct {
	Mode        Mode
	Title       string
	Description string
	AllDay      bool
	Start       DateValue
	End         DateValue
	CalendarId  string

	// EditingUID must be non-empty while Mode is edit or no write is
	// permitted: an event with no stable identity cannot be safely mutated.
	EditingUID        string
	EditingCalendarId string

	// Error is the user-visible message of the last failed validation or
	// write; it never closes the dialog.
	Error string

	// The originally-seeded window, kept as the fallback when a later all-day
	// toggle cannot reparse edited field values.
	seededStart DateValue
	seededEnd   DateValue
}

func (d *Draft) seed(start, end DateValue) {
	d.Start = start
	d.End = end
	d.seededStart = start
	d.seededEnd = end
}

// ToggleAllDay flips the draft between the all-day and timed representations,
// reparsing the current strings under the current interpretation and
// reformatting them under the new one. If a field no longer parses, it falls
// back to the originally-seeded window instead of corrupting the value.
func (d *Draft) ToggleAllDay() {
	to := KindAllDay
	if d.AllDay {
		to = KindTimed
	}
	d.Start = convertOrFallback(d.Start, d.seededStart, to)
	d.End = convertOrFallback(d.End, d.seededEnd, to)
	d.AllDay = to == KindAllDay
}

func convertOrFallback(v, seeded DateValue, to DateKind) DateValue {
	converted, err := v.Convert(to)
	if err == nil {
		return converted
	}
	fallback, err := seeded.Convert(to)
	if err != nil {
		// Seeded values are produced from time.Time and always reformat; an
		// unparsable seed means the draft was constructed by hand.
		return seeded
	}
	return fallback
}
