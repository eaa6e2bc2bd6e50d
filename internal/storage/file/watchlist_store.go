// Package file provides a JSON-file implementation of the watchlist store,
// used when no database is configured.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// WatchlistStore persists the entry list as one JSON document on disk.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a torn document behind.
type WatchlistStore struct {
	mu   sync.Mutex
	path string
}

// NewWatchlistStore creates a file-backed watchlist store at path.
func NewWatchlistStore(path string) *WatchlistStore {
	return &WatchlistStore{path: path}
}

// Compile-time interface check.
var _ storage.WatchlistStore = (*WatchlistStore)(nil)

// Save persists the full entry list, replacing any previous value.
func (s *WatchlistStore) Save(_ context.Context, entries []domain.WatchlistEntry) error {
	if entries == nil {
		entries = []domain.WatchlistEntry{}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create watchlist dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace watchlist: %w", err)
	}
	return nil
}

// Load returns the persisted entry list, or an empty list when the file
// does not exist yet.
func (s *WatchlistStore) Load(_ context.Context) ([]domain.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.WatchlistEntry{}, nil
		}
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	var entries []domain.WatchlistEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}
	return entries, nil
}
