package planner

import (
	"sync"

	"github.com/google/uuid"
)

// ImportKind tells which part of the draft a pending import targets.
type ImportKind string

const (
	ImportPOI           ImportKind = "poi"
	ImportAccommodation ImportKind = "accommodation"
)

// PendingImport is a selection made outside the wizard, waiting to be merged
// into the draft. ID identifies one delivery; a delivery is applied at most once.
type PendingImport struct {
	ID            string                  `json:"id"`
	Kind          ImportKind              `json:"kind"`
	POIID         string                  `json:"poi_id,omitempty"`
	Accommodation *AccommodationSelection `json:"accommodation,omitempty"`
}

// NewPOIImport creates a delivery of a point of interest. An empty id gets a
// fresh one.
func NewPOIImport(id, poiID string) PendingImport {
	if id == "" {
		id = uuid.NewString()
	}
	return PendingImport{ID: id, Kind: ImportPOI, POIID: poiID}
}

// NewAccommodationImport creates a delivery of a chosen hotel.
func NewAccommodationImport(id string, sel AccommodationSelection) PendingImport {
	if id == "" {
		id = uuid.NewString()
	}
	return PendingImport{ID: id, Kind: ImportAccommodation, Accommodation: &sel}
}

// Inbox queues pending imports for one wizard. Take acknowledges the import it
// returns, so re-posting an already taken delivery is ignored.
type Inbox struct {
	mu    sync.Mutex
	queue []PendingImport
	seen  map[string]bool
}

func NewInbox() *Inbox {
	return &Inbox{seen: make(map[string]bool)}
}

// Post queues imp and reports whether it was accepted. Deliveries whose ID is
// queued or already taken are rejected.
func (b *Inbox) Post(imp PendingImport) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen[imp.ID] {
		return false
	}
	b.seen[imp.ID] = true
	b.queue = append(b.queue, imp)
	return true
}

// Take removes and returns the oldest pending import.
func (b *Inbox) Take() (PendingImport, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return PendingImport{}, false
	}
	imp := b.queue[0]
	b.queue = b.queue[1:]
	return imp, true
}

func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
