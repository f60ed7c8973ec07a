package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/kbase/pkg/kbase/store"
)

// Store is an in-memory implementation of store.Journal.
type Store struct {
	mu      sync.RWMutex
	entries []store.Entry
	closed  bool
}

// New creates a new in-memory journal.
func New() *Store {
	return &Store{}
}

// Close implements store.Journal.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Append adds an entry.
func (s *Store) Append(ctx context.Context, e store.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	s.entries = append(s.entries, copyEntry(e))
	return nil
}

// Entries returns matching entries in append order.
func (s *Store) Entries(ctx context.Context, f store.Filter) ([]store.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Entry
	for _, e := range s.entries {
		if !f.Match(e) {
			continue
		}
		out = append(out, copyEntry(e))
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// Counts returns entry counts per event/kind.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range s.entries {
		counts[store.CountKey(e.Event, e.Kind)]++
	}
	return counts, nil
}

func copyEntry(e store.Entry) store.Entry {
	e.Support = append([]string(nil), e.Support...)
	return e
}
