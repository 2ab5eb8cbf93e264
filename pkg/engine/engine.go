package engine

import (
	"context"
	"time"
)

// IdentityKind says whether an event's identity came from the backend or was
// derived locally. Only stable identities permit edit and delete.
type IdentityKind int

const (
	IdentitySynthetic IdentityKind = iota
	IdentityStable
)

// Identity is the click-to-edit handle of a rendered event. A stable identity
// wraps the backend uid; a synthetic one is a local hash of the event's
// calendar, window, and summary, and is good enough for rendering but never
// for mutation.
type Identity struct {
	Kind  IdentityKind
	Value string
}

func (id Identity) Stable() bool {
	return id.Kind == IdentityStable
}

// RenderableEvent is the shape the rendering engine consumes. CalendarId and
// Identity ride along so that an event click can be routed back into the
// dialog with enough metadata to decide whether edit/delete is possible.
type RenderableEvent struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	CalendarId  string
	Identity    Identity
}

// FetchFunc retrieves the events of one source for a visible window.
type FetchFunc func(ctx context.Context, start, end time.Time) ([]RenderableEvent, error)

// EventSource is the descriptor handed to the rendering engine, one per
// visible calendar.
type EventSource struct {
	ID    string
	Color string
	Fetch FetchFunc
}

// Engine is the rendering-engine boundary. The engine owns the grid, the
// toolbar, and the current window; this module only manages its sources.
type Engine interface {
	AddEventSource(src EventSource)
	RemoveAllEventSources()
	// RefetchEvents asks every existing source to re-fetch its current window
	// without removing and re-adding sources, so scroll position and the
	// selected view are not disturbed.
	RefetchEvents()
}

// Callbacks are the user-interaction notifications an engine delivers back to
// its embedder.
type Callbacks struct {
	SelectRange func(start, end time.Time, allDay bool)
	DateClick   func(date time.Time, allDay bool)
	EventClick  func(ev RenderableEvent)
}
