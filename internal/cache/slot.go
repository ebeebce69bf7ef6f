package cache

import (
	"context"
	"sync"
	"time"
)

// Slot caches one derived value under a fixed key. Readers take a generation
// with Begin before loading from the source of truth and hand it back to
// Fill; Invalidate bumps the generation, so a load that overlapped a write
// never stores its stale result.
//
// The generation is per process. With a shared redis backend another
// instance's write is only seen once the TTL expires.
type Slot struct {
	store Store
	key   string
	ttl   time.Duration

	mu  sync.Mutex
	gen uint64
}

// NewSlot returns nil when store is nil; a nil Slot always misses.
func NewSlot(store Store, key string, ttl time.Duration) *Slot {
	if store == nil {
		return nil
	}
	return &Slot{store: store, key: key, ttl: ttl}
}

func (s *Slot) Begin() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Slot) Get(ctx context.Context) ([]byte, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	return s.store.Get(ctx, s.key)
}

// Fill stores value if no Invalidate happened since Begin returned gen. It
// reports whether the value was stored.
func (s *Slot) Fill(ctx context.Context, gen uint64, value []byte) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false, nil
	}
	if err := s.store.Set(ctx, s.key, value, s.ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate must run after the write it covers has committed.
func (s *Slot) Invalidate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.store.Delete(ctx, s.key)
}
