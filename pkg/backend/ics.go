package backend

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ExportICS renders every event of a calendar inside [from, to) as an
// iCalendar document. Recurring events are exported as their base event with
// the RRULE attached, not expanded.
func (s *Service) ExportICS(ctx context.Context, calendarId string, from, to time.Time) (string, error) {
	cal, err := s.repo.GetCalendar(ctx, calendarId)
	if err != nil {
		return "", fmt.Errorf("failed to load calendar %s: %w", calendarId, err)
	}

	events, err := s.repo.GetEvents(ctx, calendarId, from, to)
	if err != nil {
		return "", fmt.Errorf("failed to get events for %s: %w", calendarId, err)
	}

	document := ics.NewCalendar()
	document.SetMethod(ics.MethodPublish)
	if cal != nil {
		document.SetName(cal.Name)
	}

	for _, ev := range events {
		entry := document.AddEvent(ev.UID)
		entry.SetDtStampTime(s.clock.Now())
		entry.SetSummary(ev.Summary)
		if ev.Description != "" {
			entry.SetDescription(ev.Description)
		}
		if ev.AllDay {
			entry.SetAllDayStartAt(ev.Start)
			entry.SetAllDayEndAt(ev.End)
		} else {
			entry.SetStartAt(ev.Start)
			entry.SetEndAt(ev.End)
		}
		if ev.RRule != "" {
			entry.AddRrule(ev.RRule)
		}
	}

	return document.Serialize(), nil
}
