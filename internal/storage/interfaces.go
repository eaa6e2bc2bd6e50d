package storage

import (
	"context"

	"pumpwatch/internal/domain"
)

// TokenStore is the canonical holder of all flushed records. Records are
// never deleted and never deduplicated by URI; each flushed batch is
// prepended so the newest records come first.
type TokenStore interface {
	// PrependBatch inserts a batch at the front of the collection,
	// preserving the batch's internal order.
	PrependBatch(ctx context.Context, records []*domain.TokenRecord) error

	// GetAll returns all records, newest batch first.
	GetAll(ctx context.Context) ([]*domain.TokenRecord, error)

	// GetByMint returns the most recently flushed record with the given
	// mint. Returns ErrNotFound if no record carries it.
	GetByMint(ctx context.Context, mint string) (*domain.TokenRecord, error)

	// GetByURI returns the most recently flushed record with the given
	// URI. Returns ErrNotFound if no record carries it.
	GetByURI(ctx context.Context, uri string) (*domain.TokenRecord, error)

	// Len returns the number of stored records.
	Len(ctx context.Context) (int, error)

	// Mints returns every distinct mint currently stored, newest first.
	Mints(ctx context.Context) ([]string, error)
}

// PriceSeriesStore holds one rolling price window per mint. Windows are
// bounded: appending beyond the capacity evicts the oldest sample.
type PriceSeriesStore interface {
	// Append adds a sample to the mint's window, creating the window on
	// first use and evicting the oldest sample beyond the capacity.
	Append(ctx context.Context, mint string, price float64) error

	// Get returns the mint's window, oldest first. Returns ErrNotFound if
	// the mint has no window yet.
	Get(ctx context.Context, mint string) ([]float64, error)

	// Last returns the most recent sample and true, or 0 and false when the
	// window is empty or absent.
	Last(ctx context.Context, mint string) (float64, bool, error)
}

// WatchlistStore persists the user's favorited records under a fixed key.
// Save rewrites the whole entry list; Load reads it back once at startup.
type WatchlistStore interface {
	// Save persists the full entry list, replacing any previous value.
	Save(ctx context.Context, entries []domain.WatchlistEntry) error

	// Load returns the persisted entry list, or an empty list when nothing
	// has been saved yet.
	Load(ctx context.Context) ([]domain.WatchlistEntry, error)
}

// PriceArchive is an optional append-only sink for simulator ticks.
type PriceArchive interface {
	// ArchiveTicks appends one batch of (mint, timestamp, price) rows.
	ArchiveTicks(ctx context.Context, ticks []PriceTick) error
}

// PriceTick is one archived simulator sample.
type PriceTick struct {
	Mint        string
	TimestampMs int64
	Price       float64
}
