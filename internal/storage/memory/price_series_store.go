package memory

import (
	"context"
	"sync"

	"pumpwatch/internal/storage"
)

// DefaultWindowSize is the rolling price window capacity per mint.
const DefaultWindowSize = 24

// PriceSeriesStore is an in-memory implementation of storage.PriceSeriesStore.
// Each mint owns one bounded FIFO window; the oldest sample is evicted when
// the window is full.
type PriceSeriesStore struct {
	mu       sync.RWMutex
	windows  map[string][]float64
	capacity int
}

// NewPriceSeriesStore creates a price series store with the default window size.
func NewPriceSeriesStore() *PriceSeriesStore {
	return NewPriceSeriesStoreWithCapacity(DefaultWindowSize)
}

// NewPriceSeriesStoreWithCapacity creates a price series store with a custom
// window capacity. Capacity must be positive.
func NewPriceSeriesStoreWithCapacity(capacity int) *PriceSeriesStore {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &PriceSeriesStore{
		windows:  make(map[string][]float64),
		capacity: capacity,
	}
}

// Append adds a sample to the mint's window, creating it lazily and evicting
// the oldest sample beyond the capacity.
func (s *PriceSeriesStore) Append(_ context.Context, mint string, price float64) error {
	if mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := append(s.windows[mint], price)
	if len(w) > s.capacity {
		w = w[len(w)-s.capacity:]
	}
	s.windows[mint] = w
	return nil
}

// Get returns the mint's window, oldest first.
func (s *PriceSeriesStore) Get(_ context.Context, mint string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]float64, len(w))
	copy(out, w)
	return out, nil
}

// Last returns the most recent sample, or false when no sample exists.
func (s *PriceSeriesStore) Last(_ context.Context, mint string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[mint]
	if !ok || len(w) == 0 {
		return 0, false, nil
	}
	return w[len(w)-1], true, nil
}

var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)
