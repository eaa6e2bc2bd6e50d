package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// watchlistKey is the fixed key the entry list is stored under.
const watchlistKey = "watchlist"

// WatchlistStore implements storage.WatchlistStore on a single-key JSON
// document row. The whole entry list is rewritten on every toggle, matching
// the write-then-acknowledge contract.
type WatchlistStore struct {
	pool *Pool
}

// NewWatchlistStore creates a new WatchlistStore.
func NewWatchlistStore(pool *Pool) *WatchlistStore {
	return &WatchlistStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WatchlistStore = (*WatchlistStore)(nil)

// EnsureSchema creates the backing table if it does not exist.
func (s *WatchlistStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS watchlist_kv (
			key        TEXT PRIMARY KEY,
			entries    JSONB NOT NULL,
			updated_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create watchlist table: %w", err)
	}
	return nil
}

// Save persists the full entry list, replacing any previous value.
func (s *WatchlistStore) Save(ctx context.Context, entries []domain.WatchlistEntry) error {
	if entries == nil {
		entries = []domain.WatchlistEntry{}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO watchlist_kv (key, entries, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at
	`, watchlistKey, payload, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

// Load returns the persisted entry list, or an empty list when nothing has
// been saved yet.
func (s *WatchlistStore) Load(ctx context.Context) ([]domain.WatchlistEntry, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT entries FROM watchlist_kv WHERE key = $1
	`, watchlistKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.WatchlistEntry{}, nil
		}
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	var entries []domain.WatchlistEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}
	return entries, nil
}
