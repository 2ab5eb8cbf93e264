package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calpane/calpane/pkg/backend"
	"github.com/calpane/calpane/pkg/host"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

const dateLayout = "2006-01-02"

// Provider serves calendars of a Google account through the host boundary.
// Calendar ids carry the routing prefix, which is stripped before talking to
// the Google API.
type Provider struct {
	service *Service
}

func NewProvider(service *Service) *Provider {
	return &Provider{service: service}
}

func googleCalendarId(calendarId string) string {
	return strings.TrimPrefix(calendarId, backend.GoogleIdPrefix)
}

// Events implements host.EventReader.
func (p *Provider) Events(ctx context.Context, calendarId string, from, to time.Time) ([]host.WireEvent, error) {
	service, err := p.service.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}

	googleEvents, err := service.Events.List(googleCalendarId(calendarId)).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	wireEvents := make([]host.WireEvent, 0, len(googleEvents.Items))
	for _, item := range googleEvents.Items {
		wireEvents = append(wireEvents, host.WireEvent{
			Summary:     item.Summary,
			Description: item.Description,
			Start:       toWireTime(item.Start),
			End:         toWireTime(item.End),
			UID:         item.Id,
		})
	}
	return wireEvents, nil
}

func toWireTime(t *gcal.EventDateTime) host.WireTime {
	if t == nil {
		return host.WireTime{}
	}
	return host.WireTime{Date: t.Date, DateTime: t.DateTime}
}

// CallService implements host.ServiceCaller for the calendar domain.
func (p *Provider) CallService(ctx context.Context, domain, service string, payload map[string]any) error {
	if domain != host.CalendarDomain {
		return fmt.Errorf("%s.%s: %w", domain, service, host.ErrUnknownService)
	}

	switch service {
	case host.ServiceCreateEvent:
		return p.createEvent(ctx, payload)
	case host.ServiceUpdateEvent, host.ServiceEditEvent:
		return p.updateEvent(ctx, payload)
	case host.ServiceDeleteEvent, host.ServiceRemoveEvent:
		return p.deleteEvent(ctx, payload)
	default:
		return fmt.Errorf("%s.%s: %w", domain, service, host.ErrUnknownService)
	}
}

func (p *Provider) createEvent(ctx context.Context, payload map[string]any) error {
	fields, err := backend.ParseEventFields(payload, false)
	if err != nil {
		return err
	}
	service, err := p.service.prepareGoogleService(ctx)
	if err != nil {
		return err
	}

	_, err = service.Events.Insert(googleCalendarId(fields.CalendarId), toGoogleEvent(fields)).Do()
	if err != nil {
		err := fmt.Errorf("unable to insert event in Google Calendar: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (p *Provider) updateEvent(ctx context.Context, payload map[string]any) error {
	fields, err := backend.ParseEventFields(payload, true)
	if err != nil {
		return err
	}
	service, err := p.service.prepareGoogleService(ctx)
	if err != nil {
		return err
	}

	_, err = service.Events.Update(googleCalendarId(fields.CalendarId), fields.UID, toGoogleEvent(fields)).Do()
	if err != nil {
		err := fmt.Errorf("unable to update event in Google Calendar: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (p *Provider) deleteEvent(ctx context.Context, payload map[string]any) error {
	calendarId, _ := payload["entity_id"].(string)
	uid, _ := payload["uid"].(string)
	if calendarId == "" || uid == "" {
		return fmt.Errorf("entity_id and uid are required for delete")
	}
	service, err := p.service.prepareGoogleService(ctx)
	if err != nil {
		return err
	}

	if err := service.Events.Delete(googleCalendarId(calendarId), uid).Do(); err != nil {
		err := fmt.Errorf("unable to delete event in Google Calendar: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func toGoogleEvent(ev backend.Event) *gcal.Event {
	googleEvent := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
	}
	if ev.AllDay {
		googleEvent.Start = &gcal.EventDateTime{Date: ev.Start.Format(dateLayout)}
		googleEvent.End = &gcal.EventDateTime{Date: ev.End.Format(dateLayout)}
	} else {
		googleEvent.Start = &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)}
		googleEvent.End = &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)}
	}
	return googleEvent
}
