package backend

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	log "github.com/sirupsen/logrus"
)

// maxOccurrences caps a single event's expansion to avoid runaway rules.
const maxOccurrences = 1000

// expandOccurrences turns one stored event into its concrete occurrences
// inside [from, to). Non-recurring events pass through when they overlap the
// window; recurring events are expanded from their RRULE, each occurrence
// keeping the duration of the base event.
func expandOccurrences(ev Event, from, to time.Time) ([]Event, error) {
	if ev.RRule == "" {
		if ev.Overlaps(from, to) {
			return []Event{ev}, nil
		}
		return nil, nil
	}

	opt, err := rrule.StrToROption(ev.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule %q on %s: %w", ev.RRule, ev.UID, err)
	}
	opt.Dtstart = ev.Start
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule %q on %s: %w", ev.RRule, ev.UID, err)
	}

	duration := ev.End.Sub(ev.Start)
	// Start the scan one duration early so an occurrence that began before
	// the window but still overlaps it is included.
	starts := rule.Between(from.Add(-duration), to, true)
	if len(starts) > maxOccurrences {
		log.Warnf("truncating recurrence expansion of %s at %d occurrences", ev.UID, maxOccurrences)
		starts = starts[:maxOccurrences]
	}

	occurrences := make([]Event, 0, len(starts))
	for _, start := range starts {
		occurrence := ev
		occurrence.Start = start
		occurrence.End = start.Add(duration)
		if occurrence.Overlaps(from, to) {
			occurrences = append(occurrences, occurrence)
		}
	}
	return occurrences, nil
}
