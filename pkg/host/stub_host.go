package host

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ServiceCall records one CallService invocation made against the stub.
type ServiceCall struct {
	Domain  string
	Service string
	Payload map[string]any
}

// StubHost is an in-memory host for tests: it serves canned wire events per
// calendar and records service calls. Which service names it recognizes is
// configurable so synonym-fallback behavior can be exercised.
type StubHost struct {
	mu sync.Mutex

	EventsById map[string][]WireEvent
	ReadErr    map[string]error

	// SupportedServices lists the service names the stub accepts. Empty means
	// every known name is accepted.
	SupportedServices []string
	// FailServices maps a service name to an error returned after the name
	// check passes (simulating a backend failure that is not an unknown
	// service rejection).
	FailServices map[string]error

	Calls []ServiceCall
}

func NewStubHost() *StubHost {
	return &StubHost{
		EventsById:   map[string][]WireEvent{},
		ReadErr:      map[string]error{},
		FailServices: map[string]error{},
	}
}

func (h *StubHost) Events(ctx context.Context, calendarId string, from, to time.Time) ([]WireEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ReadErr[calendarId]; err != nil {
		return nil, err
	}
	return h.EventsById[calendarId], nil
}

func (h *StubHost) CallService(ctx context.Context, domain, service string, payload map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.supports(service) {
		return fmt.Errorf("%s.%s: %w", domain, service, ErrUnknownService)
	}
	h.Calls = append(h.Calls, ServiceCall{Domain: domain, Service: service, Payload: payload})
	if err := h.FailServices[service]; err != nil {
		return err
	}
	return nil
}

func (h *StubHost) supports(service string) bool {
	if len(h.SupportedServices) == 0 {
		return true
	}
	for _, s := range h.SupportedServices {
		if s == service {
			return true
		}
	}
	return false
}

// CallsFor returns the recorded calls for one service name.
func (h *StubHost) CallsFor(service string) []ServiceCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ServiceCall
	for _, c := range h.Calls {
		if c.Service == service {
			out = append(out, c)
		}
	}
	return out
}
