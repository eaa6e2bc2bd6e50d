package ingest

import (
	"testing"

	"pumpwatch/internal/domain"
)

func TestBuffer_AppendAndDrainOrder(t *testing.T) {
	b := NewBuffer()

	b.Append(&domain.TokenRecord{URI: "u1"})
	b.Append(&domain.TokenRecord{URI: "u2"})
	b.Append(&domain.TokenRecord{URI: "u3"})

	if b.Len() != 3 {
		t.Fatalf("expected 3 buffered records, got %d", b.Len())
	}

	drained := b.DrainAll()
	want := []string{"u1", "u2", "u3"}
	for i, uri := range want {
		if drained[i].URI != uri {
			t.Errorf("position %d: expected %s, got %s", i, uri, drained[i].URI)
		}
	}

	if b.Len() != 0 {
		t.Errorf("expected empty buffer after drain, got %d", b.Len())
	}
}

func TestBuffer_DrainEmpty(t *testing.T) {
	b := NewBuffer()
	if got := b.DrainAll(); len(got) != 0 {
		t.Errorf("expected nothing from empty buffer, got %d", len(got))
	}
}

func TestBuffer_NilRecordIgnored(t *testing.T) {
	b := NewBuffer()
	b.Append(nil)
	if b.Len() != 0 {
		t.Errorf("expected nil append to be ignored, got len %d", b.Len())
	}
}
