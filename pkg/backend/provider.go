package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calpane/calpane/pkg/host"
)

// Provider is one backing calendar store behind the host boundary.
type Provider interface {
	host.EventReader
	host.ServiceCaller
}

// GoogleIdPrefix marks calendar ids served by the Google provider. Everything
// else is served locally.
const GoogleIdPrefix = "google."

// Router dispatches reads and service calls to the provider owning the
// calendar. The google provider is optional.
type Router struct {
	local  Provider
	google Provider
}

func NewRouter(local Provider, google Provider) *Router {
	return &Router{local: local, google: google}
}

func (r *Router) providerFor(calendarId string) (Provider, error) {
	if strings.HasPrefix(calendarId, GoogleIdPrefix) {
		if r.google == nil {
			return nil, fmt.Errorf("calendar %s requires a configured google account", calendarId)
		}
		return r.google, nil
	}
	return r.local, nil
}

// Events implements host.EventReader.
func (r *Router) Events(ctx context.Context, calendarId string, from, to time.Time) ([]host.WireEvent, error) {
	provider, err := r.providerFor(calendarId)
	if err != nil {
		return nil, err
	}
	return provider.Events(ctx, calendarId, from, to)
}

// CallService implements host.ServiceCaller, routing by the entity_id of the
// payload.
func (r *Router) CallService(ctx context.Context, domain, service string, payload map[string]any) error {
	calendarId, _ := payload["entity_id"].(string)
	provider, err := r.providerFor(calendarId)
	if err != nil {
		return err
	}
	return provider.CallService(ctx, domain, service, payload)
}
