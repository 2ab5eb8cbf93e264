package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFetch(events []RenderableEvent, err error) FetchFunc {
	return func(ctx context.Context, start, end time.Time) ([]RenderableEvent, error) {
		return events, err
	}
}

// One failing source must not block or fail its siblings.
func TestStubEngine_FetchFailureIsIsolatedPerSource(t *testing.T) {
	e := NewStubEngine()
	fetchErr := errors.New("backend unavailable")
	e.AddEventSource(EventSource{ID: "good", Fetch: fixedFetch([]RenderableEvent{{Title: "Dentist"}}, nil)})
	e.AddEventSource(EventSource{ID: "bad", Fetch: fixedFetch(nil, fetchErr)})

	e.ShowWindow(context.Background(), time.Now(), time.Now().Add(24*time.Hour))

	require.Len(t, e.EventsFor("good"), 1)
	assert.NoError(t, e.ErrorFor("good"))
	assert.ErrorIs(t, e.ErrorFor("bad"), fetchErr)
	assert.Empty(t, e.EventsFor("bad"))
}

func TestStubEngine_RefetchReplaysLastWindow(t *testing.T) {
	e := NewStubEngine()
	calls := 0
	e.AddEventSource(EventSource{ID: "a", Fetch: func(ctx context.Context, start, end time.Time) ([]RenderableEvent, error) {
		calls++
		return nil, nil
	}})

	e.ShowWindow(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Equal(t, 1, calls)

	e.RefetchEvents()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, e.RefetchCount)
}

func TestIdentity_Stable(t *testing.T) {
	assert.True(t, Identity{Kind: IdentityStable, Value: "uid-1"}.Stable())
	assert.False(t, Identity{Kind: IdentitySynthetic, Value: "abc"}.Stable())
}
