package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu        sync.Mutex
	calendars map[string]Calendar
	events    map[string]Event

	FailWith error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		calendars: make(map[string]Calendar),
		events:    make(map[string]Event),
	}
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calendars = make(map[string]Calendar)
	r.events = make(map[string]Event)
	r.FailWith = nil
}

func (r *RepositoryStub) ListCalendars(ctx context.Context) ([]Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	calendars := make([]Calendar, 0, len(r.calendars))
	for _, cal := range r.calendars {
		calendars = append(calendars, cal)
	}
	return calendars, nil
}

func (r *RepositoryStub) GetCalendar(ctx context.Context, id string) (*Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	cal, ok := r.calendars[id]
	if !ok {
		return nil, nil
	}
	return &cal, nil
}

func (r *RepositoryStub) StoreCalendar(ctx context.Context, cal Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.calendars[cal.Id] = cal
	return nil
}

func (r *RepositoryStub) GetEvents(ctx context.Context, calendarId string, from, to time.Time) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	events := make([]Event, 0, len(r.events))
	for _, ev := range r.events {
		if ev.CalendarId != calendarId {
			continue
		}
		if ev.RRule != "" || ev.Overlaps(from, to) {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return "", r.FailWith
	}
	if event.UID == "" {
		event.UID = uuid.NewString()
	}
	r.events[event.UID] = event
	return event.UID, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	existing, ok := r.events[event.UID]
	if !ok || existing.CalendarId != event.CalendarId {
		return fmt.Errorf("%w: %s", ErrEventNotFound, event.UID)
	}
	r.events[event.UID] = event
	return nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, calendarId, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	existing, ok := r.events[uid]
	if !ok || existing.CalendarId != calendarId {
		return fmt.Errorf("%w: %s", ErrEventNotFound, uid)
	}
	delete(r.events, uid)
	return nil
}

func (r *RepositoryStub) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, 0, len(r.events))
	for _, ev := range r.events {
		events = append(events, ev)
	}
	return events
}
