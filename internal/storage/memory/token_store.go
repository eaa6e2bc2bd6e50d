package memory

import (
	"context"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
// Growth is unbounded: the core never deletes records.
type TokenStore struct {
	mu      sync.RWMutex
	records []*domain.TokenRecord // newest batch first
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// PrependBatch inserts a batch at the front, preserving batch order.
// An empty batch is a no-op.
func (s *TokenStore) PrependBatch(_ context.Context, records []*domain.TokenRecord) error {
	for _, r := range records {
		if r == nil || r.URI == "" {
			return storage.ErrInvalidInput
		}
	}
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]*domain.TokenRecord, len(records))
	for i, r := range records {
		batch[i] = r.Clone()
	}
	s.records = append(batch, s.records...)
	return nil
}

// GetAll returns all records, newest batch first.
func (s *TokenStore) GetAll(_ context.Context) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TokenRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// GetByMint returns the most recently flushed record with the given mint.
func (s *TokenStore) GetByMint(_ context.Context, mint string) (*domain.TokenRecord, error) {
	if mint == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first, so the first hit is the most recent.
	for _, r := range s.records {
		if r.Mint == mint {
			return r.Clone(), nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByURI returns the most recently flushed record with the given URI.
func (s *TokenStore) GetByURI(_ context.Context, uri string) (*domain.TokenRecord, error) {
	if uri == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.URI == uri {
			return r.Clone(), nil
		}
	}
	return nil, storage.ErrNotFound
}

// Len returns the number of stored records.
func (s *TokenStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Mints returns every distinct mint currently in the store, newest first.
// The price simulator iterates this on each tick.
func (s *TokenStore) Mints(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.records))
	var mints []string
	for _, r := range s.records {
		if r.Mint == "" {
			continue
		}
		if _, ok := seen[r.Mint]; ok {
			continue
		}
		seen[r.Mint] = struct{}{}
		mints = append(mints, r.Mint)
	}
	return mints, nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
