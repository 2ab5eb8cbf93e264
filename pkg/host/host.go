package host

import (
	"context"
	"errors"
	"time"
)

// Domain under which all calendar service calls are made.
const CalendarDomain = "calendar"

// Service names understood by hosts, in the synonym sets the gateway relies on.
const (
	ServiceCreateEvent = "create_event"
	ServiceUpdateEvent = "update_event"
	ServiceEditEvent   = "edit_event"
	ServiceDeleteEvent = "delete_event"
	ServiceRemoveEvent = "remove_event"
)

// ErrUnknownService is returned (or wrapped) by a host that does not expose
// the requested service name. The gateway falls through to the next synonym
// only on this rejection; any other failure stops the chain so a transient
// error cannot trigger a second mutating attempt.
var ErrUnknownService = errors.New("unknown service")

func IsUnknownService(err error) bool {
	return errors.Is(err, ErrUnknownService)
}

// WireTime carries either a date-only or a date-time representation. The
// presence of a time component is itself the source of truth for the all-day
// distinction.
type WireTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

func (t WireTime) IsDateOnly() bool {
	return t.Date != "" && t.DateTime == ""
}

// Value returns whichever representation is populated.
func (t WireTime) Value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// WireEvent is the host read-boundary shape for one remote event.
type WireEvent struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Start       WireTime `json:"start"`
	End         WireTime `json:"end"`
	UID         string   `json:"uid,omitempty"`
}

// EventReader is the host's per-calendar, per-window read boundary.
type EventReader interface {
	Events(ctx context.Context, calendarId string, from, to time.Time) ([]WireEvent, error)
}

// ServiceCaller is the host's generic "call a backend service" primitive.
type ServiceCaller interface {
	CallService(ctx context.Context, domain, service string, payload map[string]any) error
}
