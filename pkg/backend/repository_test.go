package backend

import (
	"context"
	"testing"
	"time"

	"github.com/calpane/calpane/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, context.Context) {
	db := test_utils.SetupTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	err := repository.StoreCalendar(ctx, Calendar{Id: "calendar.family", Name: "Family", Color: "#ff0000"})
	require.NoError(t, err)
	return repository, ctx
}

func testEvent(summary string, start time.Time, duration time.Duration) Event {
	return Event{
		CalendarId: "calendar.family",
		Summary:    summary,
		Start:      start,
		End:        start.Add(duration),
	}
}

func TestRepositoryImpl_Calendars(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	cal, err := repository.GetCalendar(ctx, "calendar.family")
	require.NoError(t, err)
	require.NotNil(t, cal)
	assert.Equal(t, "Family", cal.Name)
	assert.Equal(t, "#ff0000", cal.Color)

	// Upsert replaces name and color.
	err = repository.StoreCalendar(ctx, Calendar{Id: "calendar.family", Name: "Everyone", Color: "#00ff00"})
	require.NoError(t, err)
	cal, err = repository.GetCalendar(ctx, "calendar.family")
	require.NoError(t, err)
	assert.Equal(t, "Everyone", cal.Name)

	// Missing calendar is nil, nil.
	cal, err = repository.GetCalendar(ctx, "calendar.none")
	require.NoError(t, err)
	assert.Nil(t, cal)

	calendars, err := repository.ListCalendars(ctx)
	require.NoError(t, err)
	assert.Len(t, calendars, 1)
}

func TestRepositoryImpl_StoreAndGetEvent(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uid, err := repository.StoreEvent(ctx, testEvent("Dentist", start, time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	events, err := repository.GetEvents(ctx, "calendar.family", start.Add(-time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, uid, ev.UID)
	assert.Equal(t, "Dentist", ev.Summary)
	assert.True(t, ev.Start.Equal(start))
	assert.True(t, ev.End.Equal(start.Add(time.Hour)))
	assert.False(t, ev.AllDay)
}

func TestRepositoryImpl_GetEventsWindow(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := repository.StoreEvent(ctx, testEvent("Before", base.Add(-4*time.Hour), time.Hour))
	require.NoError(t, err)
	_, err = repository.StoreEvent(ctx, testEvent("Spanning", base.Add(-time.Hour), 2*time.Hour))
	require.NoError(t, err)
	_, err = repository.StoreEvent(ctx, testEvent("Inside", base.Add(time.Hour), time.Hour))
	require.NoError(t, err)
	_, err = repository.StoreEvent(ctx, testEvent("After", base.Add(48*time.Hour), time.Hour))
	require.NoError(t, err)

	events, err := repository.GetEvents(ctx, "calendar.family", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Spanning", events[0].Summary)
	assert.Equal(t, "Inside", events[1].Summary)
}

// Recurring events are returned regardless of their base window, because only
// expansion can decide whether an occurrence falls inside it.
func TestRepositoryImpl_RecurringEventsAlwaysReturned(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	old := testEvent("Standup", time.Date(2020, 1, 6, 9, 0, 0, 0, time.UTC), 15*time.Minute)
	old.RRule = "FREQ=WEEKLY;BYDAY=MO"
	_, err := repository.StoreEvent(ctx, old)
	require.NoError(t, err)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events, err := repository.GetEvents(ctx, "calendar.family", from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", events[0].RRule)
}

func TestRepositoryImpl_UpdateEvent(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	uid, err := repository.StoreEvent(ctx, testEvent("Dentist", start, time.Hour))
	require.NoError(t, err)

	updated := testEvent("Dentist moved", start.Add(time.Hour), time.Hour)
	updated.UID = uid
	require.NoError(t, repository.UpdateEvent(ctx, updated))

	events, err := repository.GetEvents(ctx, "calendar.family", start, start.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist moved", events[0].Summary)

	missing := updated
	missing.UID = "no-such-uid"
	err = repository.UpdateEvent(ctx, missing)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepositoryImpl_DeleteEvent(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	uid, err := repository.StoreEvent(ctx, testEvent("Dentist", start, time.Hour))
	require.NoError(t, err)

	require.NoError(t, repository.DeleteEvent(ctx, "calendar.family", uid))

	events, err := repository.GetEvents(ctx, "calendar.family", start.Add(-time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)

	err = repository.DeleteEvent(ctx, "calendar.family", uid)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepositoryImpl_AllDayRoundTrip(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)

	ev := testEvent("Holiday", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 24*time.Hour)
	ev.AllDay = true
	uid, err := repository.StoreEvent(ctx, ev)
	require.NoError(t, err)

	events, err := repository.GetEvents(ctx, "calendar.family", ev.Start.Add(-time.Hour), ev.End.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uid, events[0].UID)
	assert.True(t, events[0].AllDay)
}
