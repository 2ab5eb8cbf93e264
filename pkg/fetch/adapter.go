package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/calpane/calpane/pkg/engine"
	"github.com/calpane/calpane/pkg/host"
	log "github.com/sirupsen/logrus"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

// FetchError marks a single calendar's read failure. The rendering engine
// surfaces it for that source only; sibling calendars are unaffected.
type FetchError struct {
	CalendarId string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.CalendarId, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Adapter turns the host's per-calendar read boundary into the fetch
// functions event sources are built from, mapping wire events into the
// rendering engine's shape.
type Adapter struct {
	reader host.EventReader
}

func NewAdapter(reader host.EventReader) *Adapter {
	return &Adapter{reader: reader}
}

// FetchFunc returns a fetch function bound to one calendar id.
func (a *Adapter) FetchFunc(calendarId string) engine.FetchFunc {
	return func(ctx context.Context, start, end time.Time) ([]engine.RenderableEvent, error) {
		return a.Fetch(ctx, calendarId, start, end)
	}
}

// Fetch reads the backend's events for calendarId over [start, end) and maps
// them into renderable events.
func (a *Adapter) Fetch(ctx context.Context, calendarId string, start, end time.Time) ([]engine.RenderableEvent, error) {
	wireEvents, err := a.reader.Events(ctx, calendarId, start, end)
	if err != nil {
		log.Errorf("failed to read events for %s: %v", calendarId, err)
		return nil, &FetchError{CalendarId: calendarId, Err: err}
	}

	events := make([]engine.RenderableEvent, 0, len(wireEvents))
	for _, we := range wireEvents {
		ev, err := mapEvent(calendarId, we)
		if err != nil {
			log.Warnf("skipping unparsable event %q on %s: %v", we.Summary, calendarId, err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func mapEvent(calendarId string, we host.WireEvent) (engine.RenderableEvent, error) {
	// The absence of a time-of-day component on start is the source of truth
	// for the all-day distinction.
	allDay := we.Start.IsDateOnly()

	start, err := parseWireTime(we.Start)
	if err != nil {
		return engine.RenderableEvent{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseWireTime(we.End)
	if err != nil {
		return engine.RenderableEvent{}, fmt.Errorf("invalid end: %w", err)
	}

	return engine.RenderableEvent{
		Title:       we.Summary,
		Description: we.Description,
		Start:       start,
		End:         end,
		AllDay:      allDay,
		CalendarId:  calendarId,
		Identity:    identityFor(calendarId, we),
	}, nil
}

func parseWireTime(t host.WireTime) (time.Time, error) {
	if t.IsDateOnly() {
		return time.ParseInLocation(dateLayout, t.Date, time.Local)
	}
	if t.DateTime == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	return time.Parse(dateTimeLayout, t.DateTime)
}
