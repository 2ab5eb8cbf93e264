package event_bus

const (
	// TypeCalendarStateChanged signals that the backing state of one calendar
	// entity ticked (external edit, periodic poll). Mounted cards answer with
	// the refresh path: existing event sources re-fetch their current window.
	TypeCalendarStateChanged EventType = "calendar.state_changed"

	// TypeCalendarEventWritten signals a successful create/update/delete
	// performed through the service-call boundary.
	TypeCalendarEventWritten EventType = "calendar.event_written"
)

type CalendarStateChanged struct {
	// CalendarId is empty when the tick covers all calendars.
	CalendarId string
}

type CalendarEventWritten struct {
	CalendarId string
	UID        string
	Service    string
}
