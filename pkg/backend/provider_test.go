package backend

import (
	"context"
	"testing"
	"time"

	"github.com/calpane/calpane/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_RoutesByCalendarId(t *testing.T) {
	local := host.NewStubHost()
	local.EventsById["calendar.family"] = []host.WireEvent{{Summary: "Local"}}
	google := host.NewStubHost()
	google.EventsById["google.family"] = []host.WireEvent{{Summary: "Google"}}

	router := NewRouter(local, google)

	events, err := router.Events(context.Background(), "calendar.family", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Local", events[0].Summary)

	events, err = router.Events(context.Background(), "google.family", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Google", events[0].Summary)
}

func TestRouter_CallServiceRoutesByEntityId(t *testing.T) {
	local := host.NewStubHost()
	google := host.NewStubHost()
	router := NewRouter(local, google)

	err := router.CallService(context.Background(), host.CalendarDomain, host.ServiceCreateEvent,
		map[string]any{"entity_id": "google.family"})
	require.NoError(t, err)
	assert.Empty(t, local.Calls)
	assert.Len(t, google.Calls, 1)

	err = router.CallService(context.Background(), host.CalendarDomain, host.ServiceCreateEvent,
		map[string]any{"entity_id": "calendar.family"})
	require.NoError(t, err)
	assert.Len(t, local.Calls, 1)
}

func TestRouter_GoogleUnconfigured(t *testing.T) {
	router := NewRouter(host.NewStubHost(), nil)

	_, err := router.Events(context.Background(), "google.family", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google")
}
