package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"route-planner/internal/planner/plannertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := DefaultDraft()
	d.Destination = "Lviv"
	d.Points = []Waypoint{{ID: "a", Name: "Opera", Date: "2025-06-01"}}
	d.Transport = &TransportSelection{ID: "ic-712", Type: TransportTrain, Price: 450}

	require.NoError(t, SaveSession(ctx, store, DraftKey("u1"), Session{State: d, Step: StepStay}, now))

	s, ok, err := LoadSession(ctx, store, DraftKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StepStay, s.Step)
	assert.Equal(t, d, s.State)
	assert.True(t, now.Equal(s.Timestamp))
}

func TestLoadSessionEmptySlot(t *testing.T) {
	_, ok, err := LoadSession(context.Background(), NewMemoryStore(), DraftKey("nobody"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeSessionRejectsMalformed(t *testing.T) {
	_, err := DecodeSession([]byte("{not json"))
	require.Error(t, err)

	require.ErrorIs(t, err, ErrMalformedDraft)

	_, err = DecodeSession([]byte(`{"state":{},"step":9}`))
	require.ErrorIs(t, err, ErrInvalidStep)
	require.ErrorIs(t, err, ErrMalformedDraft)
}

func TestLoadSessionSeparatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	require.NoError(t, inner.Set(ctx, DraftKey("u1"), []byte("{not json")))

	_, _, err := LoadSession(ctx, inner, DraftKey("u1"))
	require.ErrorIs(t, err, ErrMalformedDraft)

	down := errors.New("connection reset")
	_, _, err = LoadSession(ctx, plannertest.NewFailingGets(inner, 1, down), DraftKey("u1"))
	require.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrMalformedDraft)
}

func TestDecodeSessionFillsDefaults(t *testing.T) {
	s, err := DecodeSession([]byte(`{"state":{"destination":"Lviv","budget":250},"step":2}`))
	require.NoError(t, err)
	assert.NotNil(t, s.State.Points)
	assert.Equal(t, 100, s.State.Budget)
}

func TestPatchSessionAccommodation(t *testing.T) {
	ctx := context.Background()
	store := plannertest.NewCountingStore(NewMemoryStore())
	sel := AccommodationSelection{ID: "amber-yard", HotelName: "Amber Yard", Price: 2100}

	patched, err := PatchSessionAccommodation(ctx, store, DraftKey("u1"), sel, time.Now())
	require.NoError(t, err)
	assert.False(t, patched, "no session, nothing to patch")
	assert.Equal(t, 0, store.Writes(DraftKey("u1")))

	require.NoError(t, SaveSession(ctx, store, DraftKey("u1"), Session{State: DefaultDraft(), Step: StepTransport}, time.Now()))
	patched, err = PatchSessionAccommodation(ctx, store, DraftKey("u1"), sel, time.Now())
	require.NoError(t, err)
	assert.True(t, patched)

	s, _, err := LoadSession(ctx, store, DraftKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, StepStay, s.Step)
	require.NotNil(t, s.State.Accommodation)
	assert.Equal(t, "Amber Yard", s.State.Accommodation.HotelName)
}

func TestMergeDoesNotAlias(t *testing.T) {
	d := DefaultDraft()
	points := []Waypoint{{ID: "a"}}
	budget := 150
	out := Merge(d, DraftPatch{Points: &points, Budget: &budget})
	points[0].ID = "changed"

	assert.Equal(t, "a", out.Points[0].ID)
	assert.Equal(t, 100, out.Budget)
	assert.Empty(t, d.Points)

	out = Merge(out, DraftPatch{Transport: &TransportSelection{ID: "bus-101"}})
	require.NotNil(t, out.Transport)
	out = Merge(out, DraftPatch{ClearTransport: true})
	assert.Nil(t, out.Transport)
}
