// Package badgerrepository stores log records in an embedded BadgerDB so the
// service can run without an external database.
//
// Records are kept under l:<ulid> as JSON. Filters are evaluated by scanning
// the prefix, which is fine for the volumes a single game server produces.
package badgerrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"gamelog/internal/config"
	"gamelog/internal/logquery"
	"gamelog/internal/models"
	"gamelog/internal/repository"
)

const prefixLog = "l:"

var ErrClosed = errors.New("badger store is closed")

type Store struct {
	db  *badger.DB
	now func() time.Time
}

var _ repository.LogRepository = (*Store)(nil)

func Open(cfg config.BadgerConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb, now: time.Now}, nil
}

func logKey(id string) []byte {
	key := make([]byte, 0, len(prefixLog)+len(id))
	key = append(key, prefixLog...)
	key = append(key, id...)
	return key
}

func (s *Store) InsertLog(ctx context.Context, item *models.LogRecord) error {
	if item == nil {
		return nil
	}
	if err := s.ready(ctx); err != nil {
		return err
	}
	now := s.now().UTC()
	if item.ID == "" {
		item.ID = repository.NewID(now)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(logKey(item.ID), data); err != nil {
			return fmt.Errorf("write log %s: %w", item.ID, err)
		}
		return nil
	})
}

func (s *Store) GetLog(ctx context.Context, id string) (*models.LogRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	var out *models.LogRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(logKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var r models.LogRecord
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
			return err
		}
		out = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListLogs(ctx context.Context, filter logquery.Filter, page logquery.Page) ([]models.LogRecord, error) {
	var matched []models.LogRecord
	err := s.scan(ctx, func(_ []byte, r *models.LogRecord) error {
		if filter.Match(r) {
			matched = append(matched, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := repository.SelectPage(matched, logquery.Filter{}, page)
	return items, nil
}

func (s *Store) CountLogs(ctx context.Context, filter logquery.Filter) (int64, error) {
	var n int64
	err := s.scan(ctx, func(_ []byte, r *models.LogRecord) error {
		if filter.Match(r) {
			n++
		}
		return nil
	})
	return n, err
}

func (s *Store) DistinctPlayers(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var records []models.LogRecord
	err := s.scan(ctx, func(_ []byte, r *models.LogRecord) error {
		if _, ok := seen[r.Player]; !ok {
			seen[r.Player] = struct{}{}
			records = append(records, models.LogRecord{Player: r.Player})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.DistinctPlayers(records), nil
}

func (s *Store) PlayerStats(ctx context.Context) ([]models.PlayerStat, error) {
	var records []models.LogRecord
	err := s.scan(ctx, func(_ []byte, r *models.LogRecord) error {
		records = append(records, *r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.AggregatePlayers(records), nil
}

// DeleteLogs removes matches through a write batch. Badger commits large
// batches in several transactions, so a failure part way leaves the earlier
// chunks deleted.
func (s *Store) DeleteLogs(ctx context.Context, filter logquery.Filter) (int64, error) {
	var keys [][]byte
	err := s.scan(ctx, func(key []byte, r *models.LogRecord) error {
		if filter.Match(r) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, fmt.Errorf("delete %s: %w", k, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

func (s *Store) DeleteLog(ctx context.Context, id string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	if id == "" {
		return false, nil
	}
	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := logKey(id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ready(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil || s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if s == nil || s.db == nil || s.db.IsClosed() {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *Store) scan(ctx context.Context, fn func(key []byte, r *models.LogRecord) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixLog)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var r models.LogRecord
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			if err := fn(item.KeyCopy(nil), &r); err != nil {
				return err
			}
		}
		return nil
	})
}
