package plannertest

import (
	"context"
	"sync"
)

// Slots is the store contract of planner.Store.
type Slots interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CountingStore records how often each key is written to the wrapped store.
type CountingStore struct {
	Slots

	mu     sync.Mutex
	writes map[string]int
}

func NewCountingStore(inner Slots) *CountingStore {
	return &CountingStore{Slots: inner, writes: make(map[string]int)}
}

func (s *CountingStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.Slots.Set(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.writes[key]++
	s.mu.Unlock()
	return nil
}

// Writes returns how many successful writes key has seen.
func (s *CountingStore) Writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key]
}

// FailingGets makes the next n reads of the wrapped store fail with err.
type FailingGets struct {
	Slots

	mu  sync.Mutex
	n   int
	err error
}

func NewFailingGets(inner Slots, n int, err error) *FailingGets {
	return &FailingGets{Slots: inner, n: n, err: err}
}

func (s *FailingGets) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	if s.n > 0 {
		s.n--
		s.mu.Unlock()
		return nil, s.err
	}
	s.mu.Unlock()
	return s.Slots.Get(ctx, key)
}

// GatedGets holds every read of key until Release is called. Entered is
// closed once the first such read has started. Like a network store, reads
// fail once their context is done.
type GatedGets struct {
	Slots

	key     string
	once    sync.Once
	Entered chan struct{}
	gate    chan struct{}
}

func NewGatedGets(inner Slots, key string) *GatedGets {
	return &GatedGets{
		Slots:   inner,
		key:     key,
		Entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
}

func (s *GatedGets) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == s.key {
		s.once.Do(func() { close(s.Entered) })
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Slots.Get(ctx, key)
}

func (s *GatedGets) Release() {
	close(s.gate)
}
