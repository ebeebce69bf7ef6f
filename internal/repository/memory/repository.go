// Package memoryrepository keeps log records in process memory. It backs
// tests and single-node demos; nothing survives a restart.
package memoryrepository

import (
	"context"
	"sync"
	"time"

	"gamelog/internal/logquery"
	"gamelog/internal/models"
	"gamelog/internal/repository"
)

type Store struct {
	mu    sync.RWMutex
	items []models.LogRecord
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

var _ repository.LogRepository = (*Store)(nil)

func (s *Store) InsertLog(ctx context.Context, item *models.LogRecord) error {
	_ = ctx
	if item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	if item.ID == "" {
		item.ID = repository.NewID(now)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	s.items = append(s.items, cloneRecord(*item))
	return nil
}

func (s *Store) GetLog(ctx context.Context, id string) (*models.LogRecord, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			r := cloneRecord(s.items[i])
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) ListLogs(ctx context.Context, filter logquery.Filter, page logquery.Page) ([]models.LogRecord, error) {
	_ = ctx
	items, _ := repository.SelectPage(s.snapshot(), filter, page)
	return items, nil
}

func (s *Store) CountLogs(ctx context.Context, filter logquery.Filter) (int64, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for i := range s.items {
		if filter.Match(&s.items[i]) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DistinctPlayers(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return repository.DistinctPlayers(s.items), nil
}

func (s *Store) PlayerStats(ctx context.Context) ([]models.PlayerStat, error) {
	_ = ctx
	return repository.AggregatePlayers(s.snapshot()), nil
}

func (s *Store) DeleteLogs(ctx context.Context, filter logquery.Filter) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var deleted int64
	for i := range s.items {
		if filter.Match(&s.items[i]) {
			deleted++
			continue
		}
		kept = append(kept, s.items[i])
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = models.LogRecord{}
	}
	s.items = kept
	return deleted, nil
}

func (s *Store) DeleteLog(ctx context.Context, id string) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) snapshot() []models.LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LogRecord, len(s.items))
	for i := range s.items {
		out[i] = cloneRecord(s.items[i])
	}
	return out
}

func cloneRecord(r models.LogRecord) models.LogRecord {
	if r.Context != nil {
		ctx := make(map[string]any, len(r.Context))
		for k, v := range r.Context {
			ctx[k] = v
		}
		r.Context = ctx
	}
	return r
}
