package wizard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"route-planner/internal/models"
	"route-planner/internal/modules/catalog"
	"route-planner/internal/modules/routes"
	"route-planner/internal/planner"
	"route-planner/internal/planner/plannertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *plannertest.CountingStore
	sched *plannertest.ManualScheduler
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	return newFixtureOver(t, planner.NewMemoryStore())
}

// newFixtureOver counts the writes reaching inner from the moment it is built.
func newFixtureOver(t *testing.T, inner plannertest.Slots) *fixture {
	t.Helper()
	store := plannertest.NewCountingStore(inner)
	sched := plannertest.NewManualScheduler()
	catalogSvc := catalog.NewService(catalog.NewMemoryRepository(), 0, nil)
	routesSvc := routes.NewService(routes.NewMemoryRepository(), routes.Options{PublicBaseURL: "https://trips.example.com"})
	svc := NewService(catalogSvc, routesSvc, Options{
		Store:         store,
		Scheduler:     sched,
		AutosaveDelay: 3 * time.Second,
	})
	t.Cleanup(svc.CloseAll)
	return &fixture{store: store, sched: sched, svc: svc}
}

func (f *fixture) session(t *testing.T, owner string) *planner.Wizard {
	t.Helper()
	w, err := f.svc.Session(context.Background(), owner)
	require.NoError(t, err)
	return w
}

// walkToExport fills the basics form, adds a point and advances to the last step.
func walkToExport(t *testing.T, w *planner.Wizard) {
	t.Helper()
	_, err := w.ChangeBasics(planner.FieldDestination, "Львів")
	require.NoError(t, err)
	_, err = w.ChangeBasics(planner.FieldDateRange, "2025-06-01 - 2025-06-03")
	require.NoError(t, err)
	_, err = w.Advance()
	require.NoError(t, err)
	w.AddPoint(planner.Waypoint{Name: "Площа Ринок", Date: "2025-06-01"})
	for w.Step() != planner.StepExport {
		_, err = w.Advance()
		require.NoError(t, err)
	}
}

func TestSessionRestoresStoredDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := planner.DefaultDraft()
	d.Destination = "Краків"
	require.NoError(t, planner.SaveSession(ctx, f.store, planner.DraftKey("u1"), planner.Session{State: d, Step: planner.StepTransport}, time.Now()))

	w := f.session(t, "u1")
	assert.Equal(t, planner.StepTransport, w.Step())
	assert.Equal(t, "Краків", w.State().Destination)
	assert.Same(t, w, f.session(t, "u1"))

	f.sched.Advance(time.Minute)
	assert.Equal(t, 1, f.store.Writes(planner.DraftKey("u1")), "restore does not write back")
}

func TestSessionRetriesRestoreAfterStoreError(t *testing.T) {
	ctx := context.Background()
	inner := planner.NewMemoryStore()
	d := planner.DefaultDraft()
	d.Destination = "Київ"
	d.Points = []planner.Waypoint{{ID: "x", Name: "Лавра"}}
	require.NoError(t, planner.SaveSession(ctx, inner, planner.DraftKey("u1"), planner.Session{State: d, Step: planner.StepTransport}, time.Now()))

	down := errors.New("redis: i/o timeout")
	f := newFixtureOver(t, plannertest.NewFailingGets(inner, 1, down))

	_, err := f.svc.Session(ctx, "u1")
	require.ErrorIs(t, err, down)
	_, _, err = f.svc.ImportPOI(ctx, "u1", "d-1", "poi-2")
	require.NoError(t, err, "the next request restores")

	w := f.session(t, "u1")
	assert.Equal(t, "Київ", w.State().Destination)
	assert.Len(t, w.State().Points, 2)

	f.sched.Advance(time.Minute)
	s, ok, err := planner.LoadSession(ctx, f.store, planner.DraftKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Київ", s.State.Destination)
	assert.Len(t, s.State.Points, 2)
}

func TestConcurrentRequestWaitsForRestore(t *testing.T) {
	ctx := context.Background()
	inner := planner.NewMemoryStore()
	d := planner.DefaultDraft()
	d.Destination = "Київ"
	require.NoError(t, planner.SaveSession(ctx, inner, planner.DraftKey("u1"), planner.Session{State: d, Step: planner.StepTransport}, time.Now()))

	gated := plannertest.NewGatedGets(inner, planner.DraftKey("u1"))
	f := newFixtureOver(t, gated)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.svc.Mount(ctx, "u1")
		assert.NoError(t, err)
	}()
	<-gated.Entered

	edited := make(chan planner.TripDraft, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		w, err := f.svc.Session(ctx, "u1")
		if !assert.NoError(t, err) {
			return
		}
		budget := 90
		edited <- w.UpdateState(planner.DraftPatch{Budget: &budget})
	}()

	gated.Release()
	wg.Wait()
	require.Len(t, edited, 1)
	got := <-edited
	assert.Equal(t, 90, got.Budget)
	assert.Equal(t, "Київ", got.Destination)
	assert.Equal(t, 90, f.session(t, "u1").State().Budget)

	f.sched.Advance(time.Minute)
	s, _, err := planner.LoadSession(ctx, f.store, planner.DraftKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, 90, s.State.Budget)
}

func TestEvictIdleFlushesAndForgets(t *testing.T) {
	f := newFixture(t)
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return clock }

	dest := "Одеса"
	first := f.session(t, "u1")
	first.UpdateState(planner.DraftPatch{Destination: &dest})
	f.session(t, "u2")

	clock = clock.Add(10 * time.Minute)
	f.session(t, "u2")
	assert.Equal(t, 0, f.svc.EvictIdle(), "nobody idle yet")

	clock = clock.Add(DefaultIdleTimeout)
	assert.Equal(t, 1, f.svc.EvictIdle())
	assert.Equal(t, 1, f.store.Writes(planner.DraftKey("u1")), "pending autosave is written on eviction")
	_, live := f.svc.live("u1")
	assert.False(t, live)
	_, live = f.svc.live("u2")
	assert.True(t, live)

	again := f.session(t, "u1")
	assert.NotSame(t, first, again)
	assert.Equal(t, "Одеса", again.State().Destination)
}

func TestHandoffBeforeSessionIsLive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sel := planner.AccommodationSelection{ID: "amber-yard", HotelName: "Amber Yard", Price: 1650, CheckIn: "2025-06-01", CheckOut: "2025-06-03"}

	require.NoError(t, f.svc.HandoffAccommodation(ctx, "u1", sel))

	view, err := f.svc.Mount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, planner.StepStay, view.Step)
	require.NotNil(t, view.State.Accommodation)
	assert.Equal(t, "amber-yard", view.State.Accommodation.ID)
	assert.Equal(t, "2025-06-01", view.Stay.CheckIn)
	assert.Equal(t, []string{`Hotel "Amber Yard" was added to your route`}, view.Notices)

	_, err = f.store.Get(ctx, planner.HandoffKey("u1"))
	assert.ErrorIs(t, err, planner.ErrSlotEmpty, "handoff slot is consumed")
}

func TestHandoffPatchesStoredDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, planner.SaveSession(ctx, f.store, planner.DraftKey("u1"), planner.Session{State: planner.DefaultDraft(), Step: planner.StepPoints}, time.Now()))

	sel := planner.AccommodationSelection{ID: "green-patio", HotelName: "Green Patio"}
	require.NoError(t, f.svc.HandoffAccommodation(ctx, "u1", sel))

	s, ok, err := planner.LoadSession(ctx, f.store, planner.DraftKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, planner.StepStay, s.Step)
	require.NotNil(t, s.State.Accommodation)
	assert.Equal(t, "green-patio", s.State.Accommodation.ID)
}

func TestHandoffToLiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.session(t, "u1")

	require.NoError(t, f.svc.HandoffAccommodation(ctx, "u1", planner.AccommodationSelection{ID: "budget-inn", HotelName: "Budget Inn"}))
	assert.Equal(t, planner.StepStay, w.Step())
	require.NotNil(t, w.State().Accommodation)

	_, err := f.store.Get(ctx, planner.HandoffKey("u1"))
	assert.ErrorIs(t, err, planner.ErrSlotEmpty)
}

func TestImportPOIOncePerDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	accepted, view, err := f.svc.ImportPOI(ctx, "u1", "d-1", "poi-2")
	require.NoError(t, err)
	assert.True(t, accepted)
	require.Len(t, view.State.Points, 1)
	p := view.State.Points[0]
	assert.Equal(t, "Львівський оперний театр", p.Name)
	assert.Equal(t, "10:00", p.TimeStart)
	assert.Equal(t, "11:00", p.TimeEnd)
	assert.Equal(t, planner.StepPoints, view.Step)

	accepted, view, err = f.svc.ImportPOI(ctx, "u1", "d-1", "poi-2")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Len(t, view.State.Points, 1)

	accepted, view, err = f.svc.ImportPOI(ctx, "u1", "d-2", "poi-missing")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Len(t, view.State.Points, 1, "unknown places are ignored")
}

func TestSelectFromCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.session(t, "u1")
	w.SetStay(planner.StaySearch{CheckIn: "2025-06-01", CheckOut: "2025-06-04", Guests: 2, Budget: 60})

	view, err := f.svc.SelectHotel(ctx, "u1", "olive-boutique")
	require.NoError(t, err)
	require.NotNil(t, view.State.Accommodation)
	assert.Equal(t, "2025-06-04", view.State.Accommodation.CheckOut)

	view, err = f.svc.SelectTransport(ctx, "u1", "ic-712")
	require.NoError(t, err)
	require.NotNil(t, view.State.Transport)
	assert.Equal(t, planner.TransportTrain, view.State.Transport.Type)

	_, err = f.svc.SelectHotel(ctx, "u1", "nope")
	assert.Error(t, err)
}

func TestSearchesUseDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.session(t, "u1")

	hotels, err := f.svc.SearchStay(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, hotels, 4, "budget 60 caps the price at 3000")
	for _, h := range hotels {
		assert.LessOrEqual(t, h.Price, 3000.0)
	}

	dest := "Краків"
	w.UpdateState(planner.DraftPatch{Destination: &dest})
	transports, err := f.svc.SearchTransport(ctx, "u1", models.TransportQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, transports)
	for _, tr := range transports {
		assert.Contains(t, tr.Route, "Краків")
	}
}

func TestOverviewRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dest := "Львів"
	f.session(t, "u1").UpdateState(planner.DraftPatch{Destination: &dest})

	o, err := f.svc.Overview(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, o.Recommendations, 6)
	assert.Equal(t, "poi-2", o.Recommendations[0].ID)
}

func TestSaveExportShare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.session(t, "u1")

	_, err := f.svc.Save(ctx, "u1", "")
	assert.ErrorIs(t, err, planner.ErrWrongStep)
	_, _, err = f.svc.Export(ctx, "u1", models.DefaultPDFOptions())
	assert.ErrorIs(t, err, planner.ErrNotSaved)
	_, err = f.svc.Share(ctx, "u1")
	assert.ErrorIs(t, err, planner.ErrNotSaved)

	walkToExport(t, w)
	id, err := f.svc.Save(ctx, "u1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	share, err := f.svc.Share(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, share.URL, "https://trips.example.com/shared/")

	name, data, err := f.svc.Export(ctx, "u1", models.DefaultPDFOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "route-to-"), name)
	assert.True(t, strings.HasSuffix(name, ".pdf"), name)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFlushAllAndCloseAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dest := "Одеса"
	f.session(t, "u1").UpdateState(planner.DraftPatch{Destination: &dest})
	assert.Equal(t, 0, f.store.Writes(planner.DraftKey("u1")))

	f.svc.FlushAll()
	assert.Equal(t, 1, f.store.Writes(planner.DraftKey("u1")))

	f.session(t, "u1").UpdateState(planner.DraftPatch{Destination: &dest})
	f.svc.CloseAll()
	f.sched.Advance(time.Minute)
	assert.Equal(t, 1, f.store.Writes(planner.DraftKey("u1")), "closed sessions do not write")

	s, ok, err := planner.LoadSession(ctx, f.store, planner.DraftKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Одеса", s.State.Destination)
}
