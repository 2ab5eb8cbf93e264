package engine

import (
	"context"
	"sync"
	"time"
)

// StubEngine is an in-memory Engine used by tests and by headless embedders.
// It remembers its sources and the last window it was asked to show, and
// fetches all sources concurrently the way a real engine would: one failing
// source must not block or fail the others.
type StubEngine struct {
	mu      sync.Mutex
	sources []EventSource

	windowStart time.Time
	windowEnd   time.Time

	RefetchCount int
	RebuildCount int

	events map[string][]RenderableEvent
	errors map[string]error
}

func NewStubEngine() *StubEngine {
	return &StubEngine{
		events: map[string][]RenderableEvent{},
		errors: map[string]error{},
	}
}

func (e *StubEngine) AddEventSource(src EventSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = append(e.sources, src)
}

func (e *StubEngine) RemoveAllEventSources() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = nil
	e.RebuildCount++
}

func (e *StubEngine) RefetchEvents() {
	e.RefetchCount++
	if !e.windowStart.IsZero() {
		e.ShowWindow(context.Background(), e.windowStart, e.windowEnd)
	}
}

// Sources returns the current source descriptors in the order they were added.
func (e *StubEngine) Sources() []EventSource {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]EventSource, len(e.sources))
	copy(out, e.sources)
	return out
}

// ShowWindow fetches every source for the given window. Fetches run
// concurrently with no ordering guarantee; each failure is recorded per
// source and does not affect siblings.
func (e *StubEngine) ShowWindow(ctx context.Context, start, end time.Time) {
	e.mu.Lock()
	e.windowStart = start
	e.windowEnd = end
	sources := make([]EventSource, len(e.sources))
	copy(sources, e.sources)
	e.mu.Unlock()

	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src EventSource) {
			defer wg.Done()
			events, err := src.Fetch(ctx, start, end)
			e.mu.Lock()
			defer e.mu.Unlock()
			if err != nil {
				e.errors[src.ID] = err
				delete(e.events, src.ID)
				return
			}
			delete(e.errors, src.ID)
			e.events[src.ID] = events
		}(src)
	}
	wg.Wait()
}

// EventsFor returns the last fetched events of one source.
func (e *StubEngine) EventsFor(sourceId string) []RenderableEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events[sourceId]
}

// ErrorFor returns the last fetch error of one source, or nil.
func (e *StubEngine) ErrorFor(sourceId string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errors[sourceId]
}
