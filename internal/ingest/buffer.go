package ingest

import (
	"sync"

	"pumpwatch/internal/domain"
)

// Buffer coalesces enriched records between flush ticks. It owns records
// exclusively until DrainAll hands them off; growth while paused is
// unbounded and accepted.
type Buffer struct {
	mu      sync.Mutex
	records []*domain.TokenRecord
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a record at the end, preserving arrival order.
func (b *Buffer) Append(rec *domain.TokenRecord) {
	if rec == nil {
		return
	}
	b.mu.Lock()
	b.records = append(b.records, rec)
	b.mu.Unlock()
}

// DrainAll removes and returns every buffered record in arrival order.
func (b *Buffer) DrainAll() []*domain.TokenRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.records
	b.records = nil
	return out
}

// Len returns the number of buffered records.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}
