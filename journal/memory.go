package journal

import (
	"context"
	"slices"
	"sync"

	"github.com/rustyeddy/tradejournal/ledger"
)

// MemoryStore implements Store with an in-memory map. Used for tests and
// throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]ledger.Entry
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]ledger.Entry),
	}
}

func (s *MemoryStore) List(_ context.Context, user string) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Copy so callers cannot mutate stored state.
	out := slices.Clone(s.entries[user])
	if out == nil {
		out = []ledger.Entry{}
	}
	return out, nil
}

func (s *MemoryStore) Replace(_ context.Context, user string, entries []ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[user] = slices.Clone(entries)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
