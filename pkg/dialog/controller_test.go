package dialog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calpane/calpane/pkg/engine"
	"github.com/calpane/calpane/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	creates []gateway.Fields
	updates []gateway.Fields
	deletes []string

	failWith error
}

func (w *stubWriter) Create(ctx context.Context, f gateway.Fields) error {
	if w.failWith != nil {
		return w.failWith
	}
	w.creates = append(w.creates, f)
	return nil
}

func (w *stubWriter) Update(ctx context.Context, f gateway.Fields) error {
	if w.failWith != nil {
		return w.failWith
	}
	w.updates = append(w.updates, f)
	return nil
}

func (w *stubWriter) Delete(ctx context.Context, calendarId, uid string) error {
	if w.failWith != nil {
		return w.failWith
	}
	w.deletes = append(w.deletes, uid)
	return nil
}

func (w *stubWriter) callCount() int {
	return len(w.creates) + len(w.updates) + len(w.deletes)
}

type stubRefresher struct {
	refreshes int
}

func (r *stubRefresher) Refresh() {
	r.refreshes++
}

func setupControllerTest() (*Controller, *stubWriter, *stubRefresher) {
	writer := &stubWriter{}
	refresher := &stubRefresher{}
	return NewController(writer, refresher), writer, refresher
}

func timedEvent(uid string) engine.RenderableEvent {
	identity := engine.Identity{Kind: engine.IdentitySynthetic, Value: "abc"}
	if uid != "" {
		identity = engine.Identity{Kind: engine.IdentityStable, Value: uid}
	}
	return engine.RenderableEvent{
		Title:      "Dentist",
		Start:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local),
		End:        time.Date(2026, 3, 2, 11, 0, 0, 0, time.Local),
		CalendarId: "calendar.a",
		Identity:   identity,
	}
}

func TestController_OpenCreateSeedsDraft(t *testing.T) {
	c, _, _ := setupControllerTest()

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	c.OpenCreate(start, start.Add(time.Hour), false, "calendar.a")

	require.Equal(t, ModeCreate, c.Mode())
	d := c.Draft()
	require.NotNil(t, d)
	assert.Equal(t, "2026-03-02T10:00", d.Start.Raw)
	assert.Equal(t, "2026-03-02T11:00", d.End.Raw)
	assert.Equal(t, "calendar.a", d.CalendarId)
	assert.False(t, d.AllDay)
}

func TestController_OpenDateClickWindows(t *testing.T) {
	c, _, _ := setupControllerTest()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	t.Run("all-day click seeds a one-day window with exclusive end", func(t *testing.T) {
		c.OpenDateClick(date, true, "calendar.a")
		d := c.Draft()
		require.NotNil(t, d)
		assert.True(t, d.AllDay)
		assert.Equal(t, "2026-03-02", d.Start.Raw)
		assert.Equal(t, "2026-03-03", d.End.Raw)
	})

	t.Run("timed click seeds a one-hour window", func(t *testing.T) {
		c.OpenDateClick(date.Add(9*time.Hour), false, "calendar.a")
		d := c.Draft()
		require.NotNil(t, d)
		assert.False(t, d.AllDay)
		assert.Equal(t, "2026-03-02T09:00", d.Start.Raw)
		assert.Equal(t, "2026-03-02T10:00", d.End.Raw)
	})
}

func TestController_OpenEventModeDependsOnIdentity(t *testing.T) {
	c, _, _ := setupControllerTest()

	c.OpenEvent(timedEvent("uid-1"))
	assert.Equal(t, ModeEdit, c.Mode())
	assert.Equal(t, "uid-1", c.Draft().EditingUID)

	c.OpenEvent(timedEvent(""))
	assert.Equal(t, ModeView, c.Mode())
	assert.Empty(t, c.Draft().EditingUID)
}

func TestController_SaveCreate(t *testing.T) {
	c, writer, refresher := setupControllerTest()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	c.OpenCreate(start, start.Add(time.Hour), false, "calendar.a")
	c.Draft().Title = "  Dentist  "

	err := c.Save(context.Background())
	require.NoError(t, err)

	require.Len(t, writer.creates, 1)
	f := writer.creates[0]
	assert.Equal(t, "Dentist", f.Summary)
	assert.Equal(t, "calendar.a", f.CalendarId)
	assert.Equal(t, start, f.Start)
	assert.Equal(t, start.Add(time.Hour), f.End)

	assert.Equal(t, ModeClosed, c.Mode())
	assert.Nil(t, c.Draft())
	assert.Equal(t, 1, refresher.refreshes)
}

func TestController_SaveEditUsesUpdate(t *testing.T) {
	c, writer, refresher := setupControllerTest()
	c.OpenEvent(timedEvent("uid-1"))
	c.Draft().Title = "Dentist moved"

	err := c.Save(context.Background())
	require.NoError(t, err)

	require.Len(t, writer.updates, 1)
	assert.Equal(t, "uid-1", writer.updates[0].UID)
	assert.Empty(t, writer.creates)
	assert.Equal(t, 1, refresher.refreshes)
}

func TestController_SaveValidation(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	testCases := []struct {
		name    string
		prepare func(d *Draft)
		wantMsg string
	}{
		{
			name:    "empty title",
			prepare: func(d *Draft) { d.Title = "   " },
			wantMsg: "a title is required",
		},
		{
			name: "missing calendar",
			prepare: func(d *Draft) {
				d.Title = "Dentist"
				d.CalendarId = ""
			},
			wantMsg: "a target calendar is required",
		},
		{
			name: "end not after start",
			prepare: func(d *Draft) {
				d.Title = "Dentist"
				d.End = d.Start
			},
			wantMsg: "the end must be after the start",
		},
		{
			name: "unparsable start",
			prepare: func(d *Draft) {
				d.Title = "Dentist"
				d.Start.Raw = "garbage"
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, writer, refresher := setupControllerTest()
			c.OpenCreate(start, start.Add(time.Hour), false, "calendar.a")
			tc.prepare(c.Draft())

			err := c.Save(context.Background())
			require.Error(t, err)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, validationErr.Msg)
			}

			// The dialog stays open with the message; no backend call was made.
			assert.Equal(t, ModeCreate, c.Mode())
			assert.Equal(t, err.Error(), c.Draft().Error)
			assert.Zero(t, writer.callCount())
			assert.Zero(t, refresher.refreshes)
		})
	}
}

func TestController_SaveViewIsRejected(t *testing.T) {
	c, writer, _ := setupControllerTest()
	c.OpenEvent(timedEvent(""))
	c.Draft().Title = "Renamed"

	err := c.Save(context.Background())
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Zero(t, writer.callCount())
	assert.Equal(t, ModeView, c.Mode())
}

func TestController_SaveEditWithoutUidIsIdentityError(t *testing.T) {
	c, writer, _ := setupControllerTest()
	c.OpenEvent(timedEvent("uid-1"))
	c.Draft().EditingUID = ""

	err := c.Save(context.Background())
	require.Error(t, err)

	var identityErr *IdentityError
	require.ErrorAs(t, err, &identityErr)
	assert.Equal(t, "edited", identityErr.Op)
	assert.Zero(t, writer.callCount())
	assert.Equal(t, ModeEdit, c.Mode())
}

func TestController_SaveFailureKeepsDraft(t *testing.T) {
	c, writer, refresher := setupControllerTest()
	writer.failWith = errors.New("backend down")

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	c.OpenCreate(start, start.Add(time.Hour), false, "calendar.a")
	c.Draft().Title = "Dentist"
	c.Draft().Description = "Bring card"

	err := c.Save(context.Background())
	require.Error(t, err)

	// Entered fields and the error survive; nothing was refreshed.
	d := c.Draft()
	require.NotNil(t, d)
	assert.Equal(t, "Dentist", d.Title)
	assert.Equal(t, "Bring card", d.Description)
	assert.Equal(t, "backend down", d.Error)
	assert.Zero(t, refresher.refreshes)
	assert.False(t, c.Busy())
}

func TestController_SaveWhileBusy(t *testing.T) {
	c, writer, _ := setupControllerTest()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	c.OpenCreate(start, start.Add(time.Hour), false, "calendar.a")
	c.Draft().Title = "Dentist"

	c.busy = true
	assert.ErrorIs(t, c.Save(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.Delete(context.Background(), true), ErrBusy)
	assert.Zero(t, writer.callCount())
}

func TestController_Delete(t *testing.T) {
	t.Run("confirmed delete closes and refreshes", func(t *testing.T) {
		c, writer, refresher := setupControllerTest()
		c.OpenEvent(timedEvent("uid-1"))

		err := c.Delete(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, []string{"uid-1"}, writer.deletes)
		assert.Equal(t, ModeClosed, c.Mode())
		assert.Equal(t, 1, refresher.refreshes)
	})

	t.Run("unconfirmed delete is a no-op", func(t *testing.T) {
		c, writer, _ := setupControllerTest()
		c.OpenEvent(timedEvent("uid-1"))

		err := c.Delete(context.Background(), false)
		require.NoError(t, err)
		assert.Zero(t, writer.callCount())
		assert.Equal(t, ModeEdit, c.Mode())
	})

	t.Run("delete without stable uid is an identity error", func(t *testing.T) {
		c, writer, _ := setupControllerTest()
		c.OpenEvent(timedEvent("uid-1"))
		c.draft.EditingUID = ""

		err := c.Delete(context.Background(), true)
		var identityErr *IdentityError
		require.ErrorAs(t, err, &identityErr)
		assert.Equal(t, "deleted", identityErr.Op)
		assert.Zero(t, writer.callCount())
	})

	t.Run("delete outside edit mode is rejected", func(t *testing.T) {
		c, writer, _ := setupControllerTest()
		start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
		c.OpenCreate(start, start.Add(time.Hour), false, "calendar.a")

		err := c.Delete(context.Background(), true)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Zero(t, writer.callCount())
	})
}

func TestController_Cancel(t *testing.T) {
	c, writer, _ := setupControllerTest()
	c.OpenEvent(timedEvent("uid-1"))
	c.Draft().Title = "Changed"

	c.Cancel()
	assert.Equal(t, ModeClosed, c.Mode())
	assert.Nil(t, c.Draft())
	assert.Zero(t, writer.callCount())
}

func TestController_ToggleAllDayOnClosedDialog(t *testing.T) {
	c, _, _ := setupControllerTest()
	assert.NotPanics(t, c.ToggleAllDay)
	assert.Equal(t, ModeClosed, c.Mode())
}
