package backend

import "time"

// Calendar is one locally-stored calendar.
type Calendar struct {
	Id    string
	Name  string
	Color string
}

// Event is one stored calendar event. Start and End are instants; AllDay
// selects the date-only wire representation. RRule, when set, is an RFC 5545
// recurrence rule expanded at read time.
type Event struct {
	UID         string
	CalendarId  string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	RRule       string
}

// Overlaps reports whether the event intersects the window [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && e.End.After(from)
}
