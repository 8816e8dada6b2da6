// Package wizard serves the trip-planning wizard over HTTP. It keeps one live
// planner.Wizard per user and connects it to the catalog and saved routes.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"route-planner/internal/models"
	"route-planner/internal/modules/catalog"
	"route-planner/internal/modules/routes"
	"route-planner/internal/planner"

	"go.uber.org/zap"
)

// DefaultIdleTimeout is how long an untouched session stays in memory.
const DefaultIdleTimeout = 30 * time.Minute

// Options configures the session registry.
type Options struct {
	Store         planner.Store
	Scheduler     planner.Scheduler
	AutosaveDelay time.Duration
	IdleTimeout   time.Duration
	Logger        *zap.Logger
}

// Overview is the read model of the final steps: the wizard view plus
// destination recommendations.
type Overview struct {
	planner.View
	Recommendations []models.POI `json:"recommendations"`
}

type liveSession struct {
	w        *planner.Wizard
	lastUsed time.Time
}

// Service is the registry of live wizard sessions. It also implements
// catalog.AccommodationHandoff.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*liveSession
	lastSweep time.Time

	store     planner.Store
	scheduler planner.Scheduler
	delay     time.Duration
	idle      time.Duration
	catalog   catalog.ServiceInterface
	routes    routes.ServiceInterface
	log       *zap.Logger
	now       func() time.Time
}

func NewService(catalogSvc catalog.ServiceInterface, routesSvc routes.ServiceInterface, opts Options) *Service {
	if opts.Store == nil {
		opts.Store = planner.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Service{
		sessions:  make(map[string]*liveSession),
		store:     opts.Store,
		scheduler: opts.Scheduler,
		delay:     opts.AutosaveDelay,
		idle:      opts.IdleTimeout,
		catalog:   catalogSvc,
		routes:    routesSvc,
		log:       opts.Logger,
		now:       time.Now,
	}
}

func (s *Service) live(owner string) (*planner.Wizard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.sessions[owner]
	if !ok {
		return nil, false
	}
	return ls.w, true
}

// Session returns the owner's wizard with its stored draft restored. The
// wizard is registered before the restore runs; concurrent callers block on
// the wizard until the restore finishes. A failed restore is retried by the
// next call.
func (s *Service) Session(ctx context.Context, owner string) (*planner.Wizard, error) {
	now := s.now()

	s.mu.Lock()
	evicted := s.sweepLocked(now)
	ls, ok := s.sessions[owner]
	if !ok {
		ls = &liveSession{w: planner.New(planner.Config{
			Owner:         owner,
			Store:         s.store,
			Scheduler:     s.scheduler,
			AutosaveDelay: s.delay,
			POIs:          s.catalog,
			Logger:        s.log,
			Now:           s.now,
		})}
		s.sessions[owner] = ls
	}
	ls.lastUsed = now
	s.mu.Unlock()

	s.retire(evicted)
	if err := ls.w.Restore(ctx); err != nil {
		return nil, fmt.Errorf("service.Session: %w", err)
	}
	if !ok {
		s.log.Debug("wizard session started", zap.String("owner", owner))
	}
	return ls.w, nil
}

// Mount re-runs the mount sequence of the owner's session: a restore until
// one succeeds, then pending handoffs and imports.
func (s *Service) Mount(ctx context.Context, owner string) (planner.View, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return planner.View{}, err
	}
	if err := w.Mount(ctx); err != nil {
		return planner.View{}, fmt.Errorf("service.Mount: %w", err)
	}
	return w.View(), nil
}

// EvictIdle drops sessions untouched for longer than the idle timeout after
// writing their pending autosave. It returns how many were dropped.
func (s *Service) EvictIdle() int {
	s.mu.Lock()
	s.lastSweep = time.Time{}
	evicted := s.sweepLocked(s.now())
	s.mu.Unlock()
	s.retire(evicted)
	return len(evicted)
}

// sweepLocked unregisters idle sessions, at most once per idle period.
func (s *Service) sweepLocked(now time.Time) []*planner.Wizard {
	if now.Sub(s.lastSweep) < s.idle {
		return nil
	}
	s.lastSweep = now
	var out []*planner.Wizard
	for owner, ls := range s.sessions {
		if now.Sub(ls.lastUsed) > s.idle {
			out = append(out, ls.w)
			delete(s.sessions, owner)
		}
	}
	return out
}

func (s *Service) retire(ws []*planner.Wizard) {
	for _, w := range ws {
		w.Flush()
		w.Close()
	}
	if len(ws) > 0 {
		s.log.Debug("idle wizard sessions evicted", zap.Int("count", len(ws)))
	}
}

// HandoffAccommodation leaves a hotel booked outside the wizard for the
// owner's session. A live session picks it up at once; otherwise the stored
// draft is patched so the next mount opens on the stay step.
func (s *Service) HandoffAccommodation(ctx context.Context, owner string, sel planner.AccommodationSelection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("service.HandoffAccommodation: %w", err)
	}
	if err := s.store.Set(ctx, planner.HandoffKey(owner), raw); err != nil {
		return fmt.Errorf("service.HandoffAccommodation: %w", err)
	}

	if w, ok := s.live(owner); ok {
		if err := w.Mount(ctx); err != nil {
			return fmt.Errorf("service.HandoffAccommodation: %w", err)
		}
		return nil
	}
	if _, err := planner.PatchSessionAccommodation(ctx, s.store, planner.DraftKey(owner), sel, s.now()); err != nil {
		return fmt.Errorf("service.HandoffAccommodation: %w", err)
	}
	return nil
}

// ImportPOI delivers a point of interest to the owner's wizard. A repeated
// delivery id is ignored and reported as false.
func (s *Service) ImportPOI(ctx context.Context, owner, deliveryID, poiID string) (bool, planner.View, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return false, planner.View{}, err
	}
	accepted := w.Deliver(ctx, planner.NewPOIImport(deliveryID, poiID))
	return accepted, w.View(), nil
}

// SelectHotel stores a catalog hotel as the draft's accommodation, using the
// dates of the stay search.
func (s *Service) SelectHotel(ctx context.Context, owner, hotelID string) (planner.View, error) {
	hotel, err := s.catalog.GetHotel(ctx, hotelID)
	if err != nil {
		return planner.View{}, err
	}
	w, err := s.Session(ctx, owner)
	if err != nil {
		return planner.View{}, err
	}
	stay := w.Stay()
	w.SelectAccommodation(catalog.AccommodationFor(*hotel, stay.CheckIn, stay.CheckOut))
	return w.View(), nil
}

func (s *Service) SelectTransport(ctx context.Context, owner, transportID string) (planner.View, error) {
	t, err := s.catalog.GetTransport(ctx, transportID)
	if err != nil {
		return planner.View{}, err
	}
	w, err := s.Session(ctx, owner)
	if err != nil {
		return planner.View{}, err
	}
	w.SelectTransport(catalog.TransportFor(*t))
	return w.View(), nil
}

// SearchStay runs the step 4 hotel search for the draft's destination with
// the session's stay parameters.
func (s *Service) SearchStay(ctx context.Context, owner string) ([]models.Hotel, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return nil, err
	}
	draft := w.State()
	stay := w.Stay()
	return s.catalog.SearchHotels(ctx, models.HotelQuery{
		Location: strings.TrimSpace(draft.Destination),
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		Guests:   stay.Guests,
		MaxPrice: stay.MaxPrice(),
	})
}

// SearchTransport runs the step 3 search. The destination fills in an empty
// To field.
func (s *Service) SearchTransport(ctx context.Context, owner string, q models.TransportQuery) ([]models.Transport, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.To) == "" {
		q.To = strings.TrimSpace(w.State().Destination)
	}
	return s.catalog.SearchTransport(ctx, q)
}

func (s *Service) Overview(ctx context.Context, owner string) (*Overview, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return nil, err
	}
	view := w.View()
	recs, err := s.catalog.Recommendations(ctx, view.State.Destination)
	if err != nil {
		return nil, fmt.Errorf("service.Overview: %w", err)
	}
	return &Overview{View: view, Recommendations: recs}, nil
}

func (s *Service) Save(ctx context.Context, owner, title string) (string, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return "", err
	}
	return w.Save(ctx, s.routes, title)
}

// Export renders the route saved from the owner's wizard.
func (s *Service) Export(ctx context.Context, owner string, opts models.PDFOptions) (string, []byte, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return "", nil, err
	}
	id, err := w.SavedRouteID()
	if err != nil {
		return "", nil, err
	}
	return s.routes.ExportPDF(ctx, owner, id, opts)
}

func (s *Service) Share(ctx context.Context, owner string) (*models.ShareResponse, error) {
	w, err := s.Session(ctx, owner)
	if err != nil {
		return nil, err
	}
	id, err := w.SavedRouteID()
	if err != nil {
		return nil, err
	}
	return s.routes.ShareRoute(ctx, owner, id)
}

// FlushAll writes every pending autosave. Called on shutdown.
func (s *Service) FlushAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ls := range s.sessions {
		ls.w.Flush()
	}
}

// CloseAll stops every session's autosave timer and forgets the sessions.
func (s *Service) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, ls := range s.sessions {
		ls.w.Close()
		delete(s.sessions, owner)
	}
}
