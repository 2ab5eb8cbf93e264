package dialog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/calpane/calpane/pkg/engine"
	"github.com/calpane/calpane/pkg/gateway"
	log "github.com/sirupsen/logrus"
)

// ErrBusy is returned when a submit arrives while a previous write for the
// same draft is still outstanding.
var ErrBusy = errors.New("a write for this dialog is already in progress")

// ValidationError reports invalid user input before a write. The dialog stays
// open with the message; no backend call is issued.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// IdentityError reports an edit or delete attempted on an event lacking a
// stable uid. It is fatal to that operation only and never reaches the
// backend.
type IdentityError struct {
	Op string
}

func (e *IdentityError) Error() string {
	return "event has no stable id and cannot be " + e.Op
}

// Writer is the persistence boundary of the dialog. Satisfied by
// *gateway.Gateway.
type Writer interface {
	Create(ctx context.Context, f gateway.Fields) error
	Update(ctx context.Context, f gateway.Fields) error
	Delete(ctx context.Context, calendarId, uid string) error
}

// Refresher is asked to re-fetch event sources after a successful write.
// Satisfied by *sources.Synchronizer.
type Refresher interface {
	Refresh()
}

// Controller drives the event dialog through its lifecycle:
// closed -> create -> closed and closed -> view|edit -> closed.
type Controller struct {
	writer    Writer
	refresher Refresher
	draft     Draft
	busy      bool
}

func NewController(writer Writer, refresher Refresher) *Controller {
	return &Controller{writer: writer, refresher: refresher}
}

func (c *Controller) Mode() Mode {
	return c.draft.Mode
}

// Draft exposes the open draft for form binding. Nil while closed.
func (c *Controller) Draft() *Draft {
	if c.draft.Mode == ModeClosed {
		return nil
	}
	return &c.draft
}

func (c *Controller) Busy() bool {
	return c.busy
}

// OpenCreate seeds a create draft from a slot selection on the rendering
// engine. The engine already reports all-day selections with an exclusive
// end.
func (c *Controller) OpenCreate(start, end time.Time, allDay bool, calendarId string) {
	kind := KindTimed
	if allDay {
		kind = KindAllDay
	}
	c.draft = Draft{
		Mode:       ModeCreate,
		AllDay:     allDay,
		CalendarId: calendarId,
	}
	c.draft.seed(NewDateValue(start, kind), NewDateValue(end, kind))
}

// OpenDateClick seeds a create draft from a day-cell click: a one-day window
// for all-day views (exclusive end one day after start), a one-hour window
// otherwise.
func (c *Controller) OpenDateClick(date time.Time, allDay bool, calendarId string) {
	end := date.Add(time.Hour)
	if allDay {
		end = date.AddDate(0, 0, 1)
	}
	c.OpenCreate(date, end, allDay, calendarId)
}

// OpenEvent seeds the draft from a rendered event. The target state is edit
// when the event carries a stable identity, view (read-only) otherwise.
func (c *Controller) OpenEvent(ev engine.RenderableEvent) {
	kind := KindTimed
	if ev.AllDay {
		kind = KindAllDay
	}

	mode := ModeView
	uid := ""
	if ev.Identity.Stable() {
		mode = ModeEdit
		uid = ev.Identity.Value
	}

	c.draft = Draft{
		Mode:              mode,
		Title:             ev.Title,
		Description:       ev.Description,
		AllDay:            ev.AllDay,
		CalendarId:        ev.CalendarId,
		EditingUID:        uid,
		EditingCalendarId: ev.CalendarId,
	}
	c.draft.seed(NewDateValue(ev.Start, kind), NewDateValue(ev.End, kind))
}

// ToggleAllDay flips the open draft between all-day and timed field formats.
func (c *Controller) ToggleAllDay() {
	if c.draft.Mode == ModeClosed {
		return
	}
	c.draft.ToggleAllDay()
}

// Cancel discards the draft with no side effect.
func (c *Controller) Cancel() {
	c.draft = Draft{}
}

// Save validates and commits the open draft. Validation and identity
// failures keep the dialog open with a user-visible message and issue zero
// backend calls; a write failure keeps the dialog open with the backend's
// error text and preserves entered fields. On success the dialog closes and
// the refresher is triggered.
func (c *Controller) Save(ctx context.Context) error {
	if c.busy {
		return ErrBusy
	}

	d := &c.draft
	switch d.Mode {
	case ModeCreate, ModeEdit:
	case ModeView:
		return c.fail(&ValidationError{Msg: "this event is read-only and cannot be saved"})
	default:
		return errors.New("no open dialog to save")
	}

	fields, err := c.validatedFields()
	if err != nil {
		return c.fail(err)
	}

	if d.Mode == ModeEdit && d.EditingUID == "" {
		return c.fail(&IdentityError{Op: "edited"})
	}

	c.busy = true
	defer func() { c.busy = false }()

	if d.Mode == ModeCreate {
		err = c.writer.Create(ctx, fields)
	} else {
		err = c.writer.Update(ctx, fields)
	}
	if err != nil {
		// Keep the dialog open, keep the user's fields, surface the error.
		return c.fail(err)
	}

	log.Debugf("dialog %s saved for %s", d.Mode, fields.CalendarId)
	c.draft = Draft{}
	c.refresher.Refresh()
	return nil
}

// Delete removes the edited event. It requires an explicit confirmation and
// a stable uid; on success the dialog closes and the refresher is triggered.
func (c *Controller) Delete(ctx context.Context, confirmed bool) error {
	if c.busy {
		return ErrBusy
	}
	if c.draft.Mode != ModeEdit {
		return c.fail(&ValidationError{Msg: "only an existing event can be deleted"})
	}
	if !confirmed {
		return nil
	}
	if c.draft.EditingUID == "" {
		return c.fail(&IdentityError{Op: "deleted"})
	}

	c.busy = true
	defer func() { c.busy = false }()

	if err := c.writer.Delete(ctx, c.draft.EditingCalendarId, c.draft.EditingUID); err != nil {
		return c.fail(err)
	}

	c.draft = Draft{}
	c.refresher.Refresh()
	return nil
}

func (c *Controller) validatedFields() (gateway.Fields, error) {
	d := &c.draft
	if strings.TrimSpace(d.Title) == "" {
		return gateway.Fields{}, &ValidationError{Msg: "a title is required"}
	}
	if d.CalendarId == "" {
		return gateway.Fields{}, &ValidationError{Msg: "a target calendar is required"}
	}

	start, err := d.Start.Time()
	if err != nil {
		return gateway.Fields{}, &ValidationError{Msg: err.Error()}
	}
	end, err := d.End.Time()
	if err != nil {
		return gateway.Fields{}, &ValidationError{Msg: err.Error()}
	}
	if !end.After(start) {
		return gateway.Fields{}, &ValidationError{Msg: "the end must be after the start"}
	}

	return gateway.Fields{
		CalendarId:  d.CalendarId,
		Summary:     strings.TrimSpace(d.Title),
		Description: d.Description,
		UID:         d.EditingUID,
		AllDay:      d.AllDay,
		Start:       start,
		End:         end,
	}, nil
}

// fail records the user-visible message and returns the error unchanged. The
// dialog stays open.
func (c *Controller) fail(err error) error {
	c.draft.Error = err.Error()
	return err
}
