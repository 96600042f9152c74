package memorykv

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
)

// Store is a thread-safe in-process key-value store.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ikvstore.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)

	return nil
}

func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]ikvstore.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	entries := make([]ikvstore.Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, ikvstore.Entry{Key: k, Value: append([]byte(nil), s.data[k]...)})
	}

	return entries, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
