package memory

import (
	"context"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// WatchlistStore is an in-memory implementation of storage.WatchlistStore,
// used in tests and when no durable backend is configured.
type WatchlistStore struct {
	mu      sync.RWMutex
	entries []domain.WatchlistEntry
}

// NewWatchlistStore creates a new in-memory watchlist store.
func NewWatchlistStore() *WatchlistStore {
	return &WatchlistStore{}
}

// Save replaces the persisted entry list.
func (s *WatchlistStore) Save(_ context.Context, entries []domain.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]domain.WatchlistEntry, len(entries))
	copy(cp, entries)
	s.entries = cp
	return nil
}

// Load returns the persisted entry list.
func (s *WatchlistStore) Load(_ context.Context) ([]domain.WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]domain.WatchlistEntry, len(s.entries))
	copy(cp, s.entries)
	return cp, nil
}

var _ storage.WatchlistStore = (*WatchlistStore)(nil)
