package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

// POIDetail is the part of a point of interest the wizard needs to build a waypoint.
type POIDetail struct {
	ID           string
	Name         string
	Description  string
	OpeningHours string
	Duration     string
}

// POISource looks up points of interest. A missing id yields nil, nil.
type POISource interface {
	LookupPOI(ctx context.Context, id string) (*POIDetail, error)
}

// RouteSaver turns a finished draft into a persisted route and returns its id.
type RouteSaver interface {
	SaveDraft(ctx context.Context, owner string, draft TripDraft, title string) (string, error)
}

// StaySearch holds the accommodation search parameters of step 4.
type StaySearch struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Budget   int    `json:"budget"`
}

// DefaultStaySearch returns the search parameters step 4 starts with.
func DefaultStaySearch() StaySearch {
	return StaySearch{Guests: 2, Budget: 60}
}

// MaxPrice maps the budget percentage onto a nightly price ceiling.
func (s StaySearch) MaxPrice() float64 {
	return float64(s.Budget) / 100 * 5000
}

// Config wires a Wizard to its collaborators.
type Config struct {
	Owner         string
	Store         Store
	Scheduler     Scheduler
	AutosaveDelay time.Duration
	POIs          POISource
	Logger        *zap.Logger
	Now           func() time.Time
	NewID         func() string
}

// Wizard is the state container of one user's trip-planning session. All
// methods are safe for concurrent use; mutations are serialized.
type Wizard struct {
	mu    sync.Mutex
	owner string
	store Store
	pois  POISource
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	draft        TripDraft
	step         Step
	basics       *Form
	stay         StaySearch
	inbox        *Inbox
	notices      []string
	savedRouteID string
	dragIndex    int
	dragging     bool

	autosave *Autosaver
	restored bool
}

// New returns a wizard on step 1 with a default draft. Call Mount before use:
// until the stored draft has been restored no change is autosaved.
func New(cfg Config) *Wizard {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = NewPointID
	}
	w := &Wizard{
		owner:  cfg.Owner,
		store:  cfg.Store,
		pois:   cfg.POIs,
		log:    cfg.Logger.With(zap.String("owner", cfg.Owner)),
		now:    cfg.Now,
		newID:  cfg.NewID,
		draft:  DefaultDraft(),
		step:   FirstStep,
		stay:   DefaultStaySearch(),
		inbox:  NewInbox(),
		basics: NewBasicsForm(DefaultDraft()),
	}
	w.autosave = NewAutosaver(cfg.Scheduler, cfg.AutosaveDelay, w.persist)
	return w
}

func (w *Wizard) persist(s Session) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := SaveSession(ctx, w.store, DraftKey(w.owner), s, w.now()); err != nil {
		w.log.Error("autosave failed", zap.Error(err))
		return
	}
	w.log.Debug("draft autosaved", zap.Int("step", int(s.Step)), zap.Int("points", len(s.State.Points)))
}

// touchLocked hands the current state to the autosaver. Nothing is scheduled
// before the stored draft has been restored, so a failed read can never be
// overwritten by defaults.
func (w *Wizard) touchLocked() {
	if !w.restored {
		return
	}
	w.autosave.Notify(Session{State: w.draft, Step: w.step})
}

// Mount restores the persisted draft (until a restore succeeds), picks up a
// hotel handed off by another flow and applies every pending import.
func (w *Wizard) Mount(ctx context.Context) error {
	if err := w.Restore(ctx); err != nil {
		return err
	}
	w.pollHandoff(ctx)
	w.drain(ctx)
	return nil
}

// Restore loads the persisted draft once. The wizard lock is held for the
// whole read, so concurrent mutations wait for the restored state. A draft
// that fails to decode is dropped in favour of the defaults; a failing store
// leaves the wizard unrestored and the next call tries again.
func (w *Wizard) Restore(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.restored {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	s, ok, err := LoadSession(ctx, w.store, DraftKey(w.owner))
	switch {
	case errors.Is(err, ErrMalformedDraft):
		w.log.Warn("stored draft ignored", zap.Error(err))
	case err != nil:
		w.log.Error("restoring draft failed", zap.Error(err))
		return fmt.Errorf("planner.Restore: %w: %w", ErrDraftUnavailable, err)
	case ok:
		w.draft = s.State
		w.step = s.Step
		w.log.Info("draft restored", zap.Int("step", int(s.Step)), zap.Time("saved_at", s.Timestamp))
	}
	w.basics.Load(basicsValues(w.draft))
	w.restored = true
	w.touchLocked()
	return nil
}

// Restored reports whether the persisted draft has been loaded.
func (w *Wizard) Restored() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restored
}

func (w *Wizard) pollHandoff(ctx context.Context) {
	key := HandoffKey(w.owner)
	raw, err := w.store.Get(ctx, key)
	if errors.Is(err, ErrSlotEmpty) {
		return
	}
	if err != nil {
		w.log.Warn("reading hotel handoff failed", zap.Error(err))
		return
	}
	if err := w.store.Delete(ctx, key); err != nil {
		w.log.Warn("consuming hotel handoff failed", zap.Error(err))
		return
	}
	var sel AccommodationSelection
	if err := json.Unmarshal(raw, &sel); err != nil {
		w.log.Warn("malformed hotel handoff dropped", zap.Error(err))
		return
	}
	w.inbox.Post(NewAccommodationImport("", sel))
}

// Deliver posts a pending import and applies it right away when the wizard is
// mounted. It reports false for a delivery that was already received.
func (w *Wizard) Deliver(ctx context.Context, imp PendingImport) bool {
	if !w.inbox.Post(imp) {
		return false
	}
	if w.Restored() {
		w.drain(ctx)
	}
	return true
}

func (w *Wizard) drain(ctx context.Context) {
	for {
		imp, ok := w.inbox.Take()
		if !ok {
			return
		}
		switch imp.Kind {
		case ImportPOI:
			w.importPOI(ctx, imp.POIID)
		case ImportAccommodation:
			if imp.Accommodation != nil {
				w.importAccommodation(*imp.Accommodation)
			}
		default:
			w.log.Warn("unknown import dropped", zap.String("kind", string(imp.Kind)))
		}
	}
}

func (w *Wizard) importPOI(ctx context.Context, poiID string) {
	if w.pois == nil {
		w.log.Warn("poi import without a poi source", zap.String("poi", poiID))
		return
	}
	detail, err := w.pois.LookupPOI(ctx, poiID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.log.Error("loading poi for import failed", zap.String("poi", poiID), zap.Error(err))
		w.notices = append(w.notices, "The selected place could not be loaded")
		return
	}
	if detail == nil {
		w.log.Info("imported poi not found", zap.String("poi", poiID))
		return
	}
	start := StartTimeFrom(detail.OpeningHours)
	p := Waypoint{
		Name:      detail.Name,
		Date:      VisitDate(w.draft, w.now()),
		TimeStart: start,
		TimeEnd:   EndTime(start, VisitMinutes(detail.Duration)),
		Notes:     detail.Description,
	}
	points, added := PointList(w.draft.Points).Add(p, w.newID)
	w.draft.Points = points
	w.step = StepPoints
	w.touchLocked()
	w.log.Info("poi imported", zap.String("poi", poiID), zap.String("point", added.ID))
}

func (w *Wizard) importAccommodation(sel AccommodationSelection) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Accommodation = &sel
	w.stay.CheckIn = sel.CheckIn
	w.stay.CheckOut = sel.CheckOut
	w.step = StepStay
	w.notices = append(w.notices, fmt.Sprintf("Hotel %q was added to your route", sel.HotelName))
	w.touchLocked()
}

// State returns a copy of the draft.
func (w *Wizard) State() TripDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// UpdateState shallow-merges p into the draft.
func (w *Wizard) UpdateState(p DraftPatch) TripDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = Merge(w.draft, p)
	w.touchLocked()
	return w.draft.Clone()
}

// SelectTransport stores a snapshot of the chosen transport.
func (w *Wizard) SelectTransport(sel TransportSelection) {
	w.UpdateState(DraftPatch{Transport: &sel})
}

// SelectAccommodation stores a snapshot of the chosen hotel.
func (w *Wizard) SelectAccommodation(sel AccommodationSelection) {
	w.UpdateState(DraftPatch{Accommodation: &sel})
}

// ChangeBasics edits a basics form field without committing it to the draft.
func (w *Wizard) ChangeBasics(field string, value any) (map[string]string, error) {
	v, err := coerceBasicsValue(field, value)
	if err != nil {
		return nil, err
	}
	if err := w.basics.Change(field, v); err != nil {
		return nil, err
	}
	return w.basics.Errors(), nil
}

// BlurBasics marks a basics form field as touched.
func (w *Wizard) BlurBasics(field string) (map[string]string, error) {
	if err := w.basics.Blur(field); err != nil {
		return nil, err
	}
	return w.basics.Errors(), nil
}

// BasicsErrors returns the visible errors of the basics form.
func (w *Wizard) BasicsErrors() map[string]string {
	return w.basics.Errors()
}

// Advance moves to the next step once the current step's gate passes: the
// basics form must validate (its values are then committed) and the points
// step needs at least one point.
func (w *Wizard) Advance() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepBasics:
		if !w.basics.ValidateAll() {
			return w.step, ErrValidation
		}
		w.draft = Merge(w.draft, basicsPatch(w.basics.Values()))
	case StepPoints:
		if len(w.draft.Points) == 0 {
			return w.step, ErrNoPoints
		}
	}
	w.moveLocked(w.step.Next())
	return w.step, nil
}

// Retreat moves one step back; it never fails.
func (w *Wizard) Retreat() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.moveLocked(w.step.Prev())
	return w.step
}

// JumpTo moves to a step that has already been reached.
func (w *Wizard) JumpTo(target Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.step.CanJumpTo(target) {
		return fmt.Errorf("%w: %d", ErrStepLocked, int(target))
	}
	w.moveLocked(target)
	return nil
}

func (w *Wizard) moveLocked(target Step) {
	if target == StepBasics && w.step != StepBasics {
		w.basics.Load(basicsValues(w.draft))
	}
	w.step = target
	w.dragging = false
	w.touchLocked()
}

// AddPoint appends a waypoint, generating its id when missing.
func (w *Wizard) AddPoint(p Waypoint) Waypoint {
	w.mu.Lock()
	defer w.mu.Unlock()
	points, added := PointList(w.draft.Points).Add(p, w.newID)
	w.draft.Points = points
	w.touchLocked()
	return added
}

func (w *Wizard) UpdatePoint(id string, patch WaypointPatch) (Waypoint, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	points, err := PointList(w.draft.Points).Update(id, patch)
	if err != nil {
		return Waypoint{}, err
	}
	w.draft.Points = points
	w.touchLocked()
	return points[points.IndexOf(id)], nil
}

// RemovePoint deletes a waypoint; unknown ids are a no-op.
func (w *Wizard) RemovePoint(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if PointList(w.draft.Points).IndexOf(id) < 0 {
		return
	}
	w.draft.Points = PointList(w.draft.Points).Remove(id)
	w.touchLocked()
}

func (w *Wizard) ReorderPoints(from, to int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reorderLocked(from, to)
}

func (w *Wizard) reorderLocked(from, to int) error {
	points, err := PointList(w.draft.Points).Reorder(from, to)
	if err != nil {
		return err
	}
	if from != to {
		w.draft.Points = points
		w.touchLocked()
	}
	return nil
}

// DragStart begins a drag gesture on the point at index.
func (w *Wizard) DragStart(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.draft.Points) {
		return ErrIndexOutOfRange
	}
	w.dragIndex = index
	w.dragging = true
	return nil
}

// DragOver moves the dragged point to index. The move is applied against the
// live list from the point's current position, which then becomes index.
func (w *Wizard) DragOver(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dragging {
		return ErrDragInactive
	}
	if index == w.dragIndex {
		return nil
	}
	if err := w.reorderLocked(w.dragIndex, index); err != nil {
		return err
	}
	w.dragIndex = index
	return nil
}

func (w *Wizard) DragEnd() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dragging = false
}

// Stay returns the accommodation search parameters.
func (w *Wizard) Stay() StaySearch {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stay
}

func (w *Wizard) SetStay(s StaySearch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stay = s
}

// Reset drops the persisted draft and returns to a fresh wizard.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autosave.Cancel()
	w.draft = DefaultDraft()
	w.step = FirstStep
	w.stay = DefaultStaySearch()
	w.savedRouteID = ""
	w.notices = nil
	w.dragging = false
	w.basics.Load(basicsValues(w.draft))
	if err := w.store.Delete(ctx, DraftKey(w.owner)); err != nil {
		return fmt.Errorf("planner.Reset: %w", err)
	}
	return nil
}

// Finish drops the persisted draft and leaves the in-memory state as is.
func (w *Wizard) Finish(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autosave.Cancel()
	if err := w.store.Delete(ctx, DraftKey(w.owner)); err != nil {
		return fmt.Errorf("planner.Finish: %w", err)
	}
	return nil
}

// Save persists the draft through saver. It is only available on the last
// step; the wizard stays where it is. A failing saver leaves the state intact.
func (w *Wizard) Save(ctx context.Context, saver RouteSaver, title string) (string, error) {
	w.mu.Lock()
	if w.step != StepExport {
		w.mu.Unlock()
		return "", ErrWrongStep
	}
	snapshot := w.draft.Clone()
	w.mu.Unlock()

	id, err := saver.SaveDraft(ctx, w.owner, snapshot, title)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	w.savedRouteID = id
	w.mu.Unlock()
	return id, nil
}

// SavedRouteID returns the id of the last route saved from this wizard.
func (w *Wizard) SavedRouteID() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.savedRouteID == "" {
		return "", ErrNotSaved
	}
	return w.savedRouteID, nil
}

// View is the read model of a wizard.
type View struct {
	Step         Step              `json:"step"`
	Title        string            `json:"title"`
	Progress     []StepInfo        `json:"progress"`
	State        TripDraft         `json:"state"`
	Basics       map[string]any    `json:"basics"`
	Errors       map[string]string `json:"errors"`
	Stay         StaySearch        `json:"stay"`
	Schedule     []DayGroup        `json:"schedule"`
	TotalCost    float64           `json:"total_cost"`
	SavedRouteID string            `json:"saved_route_id,omitempty"`
	DragIndex    *int              `json:"drag_index,omitempty"`
	Notices      []string          `json:"notices,omitempty"`
}

// View returns the current read model. Notices are handed out only once.
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := View{
		Step:         w.step,
		Title:        w.step.Title(),
		Progress:     Progress(w.step),
		State:        w.draft.Clone(),
		Basics:       w.basics.Values(),
		Errors:       w.basics.Errors(),
		Stay:         w.stay,
		Schedule:     GroupByDate(w.draft.Points),
		TotalCost:    w.draft.TotalCost(),
		SavedRouteID: w.savedRouteID,
		Notices:      w.notices,
	}
	if w.dragging {
		i := w.dragIndex
		v.DragIndex = &i
	}
	w.notices = nil
	return v
}

// Flush writes a pending autosave immediately.
func (w *Wizard) Flush() {
	w.autosave.Flush()
}

// Close cancels any pending autosave. The wizard must not be used afterwards.
func (w *Wizard) Close() {
	w.autosave.Close()
}
