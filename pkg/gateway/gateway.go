package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/calpane/calpane/pkg/host"
	log "github.com/sirupsen/logrus"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Synonym chains in fixed priority order. Which name a backend exposes for
// update and delete depends on its version.
var (
	updateServices = []string{host.ServiceUpdateEvent, host.ServiceEditEvent}
	deleteServices = []string{host.ServiceDeleteEvent, host.ServiceRemoveEvent}
)

// Fields is the committed form data of one create or update.
type Fields struct {
	CalendarId  string
	Summary     string
	Description string
	UID         string
	AllDay      bool
	Start       time.Time
	End         time.Time
}

// Gateway translates committed dialog data into the host's service-call
// vocabulary.
type Gateway struct {
	caller host.ServiceCaller
}

func NewGateway(caller host.ServiceCaller) *Gateway {
	return &Gateway{caller: caller}
}

// Create issues a creation request for the given fields.
func (g *Gateway) Create(ctx context.Context, f Fields) error {
	payload := f.payload(false)
	if err := g.caller.CallService(ctx, host.CalendarDomain, host.ServiceCreateEvent, payload); err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	return nil
}

// Update issues an update request, trying each known service-name synonym in
// priority order. It falls through only on an unknown-service rejection: any
// other failure stops the chain immediately, so a transient error on one
// name cannot trigger a second mutating attempt on the next.
func (g *Gateway) Update(ctx context.Context, f Fields) error {
	payload := f.payload(true)
	if err := g.callFirstSupported(ctx, updateServices, payload); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

// Delete removes an event by uid, trying each known synonym in priority order.
func (g *Gateway) Delete(ctx context.Context, calendarId, uid string) error {
	payload := map[string]any{
		"entity_id": calendarId,
		"uid":       uid,
	}
	if err := g.callFirstSupported(ctx, deleteServices, payload); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

func (g *Gateway) callFirstSupported(ctx context.Context, services []string, payload map[string]any) error {
	var lastErr error
	for _, service := range services {
		err := g.caller.CallService(ctx, host.CalendarDomain, service, payload)
		if err == nil {
			return nil
		}
		if !host.IsUnknownService(err) {
			return err
		}
		log.Debugf("service %s not supported by backend, trying next synonym", service)
		lastErr = err
	}
	return lastErr
}

// payload maps the fields onto the backend's exact field names. Date-only and
// date-time representations are mutually exclusive per call.
func (f Fields) payload(withUid bool) map[string]any {
	payload := map[string]any{
		"entity_id": f.CalendarId,
		"summary":   f.Summary,
	}
	if f.Description != "" {
		payload["description"] = f.Description
	}
	if withUid {
		payload["uid"] = f.UID
	}
	if f.AllDay {
		payload["start_date"] = f.Start.Format(dateLayout)
		payload["end_date"] = f.End.Format(dateLayout)
	} else {
		payload["start_date_time"] = f.Start.Format(dateTimeLayout)
		payload["end_date_time"] = f.End.Format(dateTimeLayout)
	}
	return payload
}
