package memory

import (
	"context"
	"errors"
	"testing"

	"pumpwatch/internal/storage"
)

func TestPriceSeriesStore_AppendAndGet(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	for _, p := range []float64{1.0, 1.1, 1.2} {
		if err := store.Append(ctx, "m1", p); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	w, err := store.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(w) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(w))
	}
	if w[0] != 1.0 || w[2] != 1.2 {
		t.Errorf("expected oldest-first order, got %v", w)
	}
}

func TestPriceSeriesStore_WindowEviction(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	// After 30 appends the window holds exactly 24, oldest evicted first.
	for i := 0; i < 30; i++ {
		if err := store.Append(ctx, "m1", float64(i)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	w, err := store.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(w) != DefaultWindowSize {
		t.Fatalf("expected window of %d, got %d", DefaultWindowSize, len(w))
	}
	if w[0] != 6 {
		t.Errorf("expected oldest surviving sample 6, got %v", w[0])
	}
	if w[len(w)-1] != 29 {
		t.Errorf("expected newest sample 29, got %v", w[len(w)-1])
	}
}

func TestPriceSeriesStore_Last(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	_, ok, err := store.Last(ctx, "m1")
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if ok {
		t.Error("expected no sample for unseen mint")
	}

	if err := store.Append(ctx, "m1", 2.5); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	last, ok, err := store.Last(ctx, "m1")
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if !ok || last != 2.5 {
		t.Errorf("expected last sample 2.5, got %v (ok=%v)", last, ok)
	}
}

func TestPriceSeriesStore_GetUnknownMint(t *testing.T) {
	store := NewPriceSeriesStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPriceSeriesStore_EmptyMintRejected(t *testing.T) {
	store := NewPriceSeriesStore()

	err := store.Append(context.Background(), "", 1.0)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
