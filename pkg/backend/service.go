package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/calpane/calpane/internal/event_bus"
	"github.com/calpane/calpane/internal/utils"
	"github.com/calpane/calpane/pkg/host"
	log "github.com/sirupsen/logrus"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Service is the locally-stored calendar provider. It answers the host read
// boundary with recurrence-expanded events and dispatches the calendar
// service-call vocabulary, including the update/delete service-name synonyms.
type Service struct {
	repo  Repository
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repository, bus *event_bus.EventBus, clock utils.Clock) *Service {
	return &Service{repo: repo, bus: bus, clock: clock}
}

// Events implements host.EventReader.
func (s *Service) Events(ctx context.Context, calendarId string, from, to time.Time) ([]host.WireEvent, error) {
	events, err := s.repo.GetEvents(ctx, calendarId, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for %s: %w", calendarId, err)
	}

	wireEvents := make([]host.WireEvent, 0, len(events))
	for _, ev := range events {
		occurrences, err := expandOccurrences(ev, from, to)
		if err != nil {
			log.Errorf("skipping event %s: %v", ev.UID, err)
			continue
		}
		for _, occurrence := range occurrences {
			wireEvents = append(wireEvents, toWireEvent(occurrence))
		}
	}
	return wireEvents, nil
}

func toWireEvent(ev Event) host.WireEvent {
	we := host.WireEvent{
		Summary:     ev.Summary,
		Description: ev.Description,
		UID:         ev.UID,
	}
	if ev.AllDay {
		we.Start = host.WireTime{Date: ev.Start.Format(dateLayout)}
		we.End = host.WireTime{Date: ev.End.Format(dateLayout)}
	} else {
		we.Start = host.WireTime{DateTime: ev.Start.Format(time.RFC3339)}
		we.End = host.WireTime{DateTime: ev.End.Format(time.RFC3339)}
	}
	return we
}

// CallService implements host.ServiceCaller for the calendar domain.
func (s *Service) CallService(ctx context.Context, domain, service string, payload map[string]any) error {
	if domain != host.CalendarDomain {
		return fmt.Errorf("%s.%s: %w", domain, service, host.ErrUnknownService)
	}

	var err error
	switch service {
	case host.ServiceCreateEvent:
		err = s.createEvent(ctx, payload)
	case host.ServiceUpdateEvent, host.ServiceEditEvent:
		err = s.updateEvent(ctx, payload)
	case host.ServiceDeleteEvent, host.ServiceRemoveEvent:
		err = s.deleteEvent(ctx, payload)
	default:
		return fmt.Errorf("%s.%s: %w", domain, service, host.ErrUnknownService)
	}
	if err != nil {
		return err
	}

	s.publishWritten(ctx, service, payload)
	return nil
}

func (s *Service) createEvent(ctx context.Context, payload map[string]any) error {
	fields, err := ParseEventFields(payload, false)
	if err != nil {
		return err
	}

	uid, err := s.repo.StoreEvent(ctx, fields)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	log.Debugf("created event %s on %s", uid, fields.CalendarId)
	return nil
}

func (s *Service) updateEvent(ctx context.Context, payload map[string]any) error {
	fields, err := ParseEventFields(payload, true)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateEvent(ctx, fields); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (s *Service) deleteEvent(ctx context.Context, payload map[string]any) error {
	calendarId, _ := payload["entity_id"].(string)
	uid, _ := payload["uid"].(string)
	if calendarId == "" || uid == "" {
		return fmt.Errorf("entity_id and uid are required for delete")
	}
	if err := s.repo.DeleteEvent(ctx, calendarId, uid); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ParseEventFields maps the service-call payload onto an event. The date-only
// and date-time field pairs are mutually exclusive.
func ParseEventFields(payload map[string]any, withUid bool) (Event, error) {
	calendarId, _ := payload["entity_id"].(string)
	summary, _ := payload["summary"].(string)
	if calendarId == "" {
		return Event{}, fmt.Errorf("entity_id is required")
	}
	if summary == "" {
		return Event{}, fmt.Errorf("summary is required")
	}

	ev := Event{
		CalendarId: calendarId,
		Summary:    summary,
	}
	ev.Description, _ = payload["description"].(string)
	if withUid {
		uid, _ := payload["uid"].(string)
		if uid == "" {
			return Event{}, fmt.Errorf("uid is required")
		}
		ev.UID = uid
	}

	startDate, hasDate := payload["start_date"].(string)
	startDateTime, hasDateTime := payload["start_date_time"].(string)
	switch {
	case hasDate && hasDateTime:
		return Event{}, fmt.Errorf("start_date and start_date_time are mutually exclusive")
	case hasDate:
		endDate, ok := payload["end_date"].(string)
		if !ok {
			return Event{}, fmt.Errorf("end_date is required with start_date")
		}
		start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
		if err != nil {
			return Event{}, fmt.Errorf("invalid start_date: %w", err)
		}
		end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
		if err != nil {
			return Event{}, fmt.Errorf("invalid end_date: %w", err)
		}
		ev.Start, ev.End, ev.AllDay = start, end, true
	case hasDateTime:
		endDateTime, ok := payload["end_date_time"].(string)
		if !ok {
			return Event{}, fmt.Errorf("end_date_time is required with start_date_time")
		}
		start, err := time.ParseInLocation(dateTimeLayout, startDateTime, time.Local)
		if err != nil {
			return Event{}, fmt.Errorf("invalid start_date_time: %w", err)
		}
		end, err := time.ParseInLocation(dateTimeLayout, endDateTime, time.Local)
		if err != nil {
			return Event{}, fmt.Errorf("invalid end_date_time: %w", err)
		}
		ev.Start, ev.End = start, end
	default:
		return Event{}, fmt.Errorf("either start_date or start_date_time is required")
	}

	return ev, nil
}

func (s *Service) publishWritten(ctx context.Context, service string, payload map[string]any) {
	if s.bus == nil {
		return
	}
	calendarId, _ := payload["entity_id"].(string)
	uid, _ := payload["uid"].(string)
	err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TypeCalendarEventWritten, event_bus.CalendarEventWritten{
		CalendarId: calendarId,
		UID:        uid,
		Service:    service,
	}))
	if err != nil {
		log.Errorf("failed to publish write notification: %v", err)
	}
}
