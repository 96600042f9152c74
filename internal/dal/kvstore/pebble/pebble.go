package pebblekv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
)

// Store implements ikvstore.IKVStore on top of an embedded PebbleDB.
type Store struct {
	db *pebble.DB
}

func NewStore(dir string) (*Store, error) {
	opts := &pebble.Options{
		MemTableSize:          64 << 20,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 12,
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ikvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get %q: %w", key, err)
	}
	defer closer.Close()

	return append([]byte(nil), v...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %q: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete %q: %w", key, err)
	}

	return nil
}

func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]ikvstore.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound([]byte(prefix)),
	})
	if err != nil {
		return nil, fmt.Errorf("pebble iter: %w", err)
	}

	entries := make([]ikvstore.Entry, 0)
	for it.First(); it.Valid(); it.Next() {
		entries = append(entries, ikvstore.Entry{
			Key:   string(it.Key()),
			Value: append([]byte(nil), it.Value()...),
		})
	}
	if err := it.Close(); err != nil {
		return nil, fmt.Errorf("pebble iter close: %w", err)
	}

	return entries, nil
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil when no such key exists.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++

			return end[:i+1]
		}
	}

	return nil
}
