package clickhouse

import (
	"context"
	"fmt"

	"pumpwatch/internal/storage"
)

// PriceArchive implements storage.PriceArchive using ClickHouse. Simulator
// ticks are appended in one batch per tick; the table is append-only.
type PriceArchive struct {
	conn *Conn
}

// NewPriceArchive creates a new PriceArchive.
func NewPriceArchive(conn *Conn) *PriceArchive {
	return &PriceArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceArchive = (*PriceArchive)(nil)

// EnsureSchema creates the backing table if it does not exist.
func (a *PriceArchive) EnsureSchema(ctx context.Context) error {
	err := a.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS price_ticks (
			mint         String,
			timestamp_ms UInt64,
			price        Float64
		) ENGINE = MergeTree()
		ORDER BY (mint, timestamp_ms)
	`)
	if err != nil {
		return fmt.Errorf("create price_ticks table: %w", err)
	}
	return nil
}

// ArchiveTicks appends one batch of simulator samples.
func (a *PriceArchive) ArchiveTicks(ctx context.Context, ticks []storage.PriceTick) error {
	if len(ticks) == 0 {
		return nil
	}

	batch, err := a.conn.PrepareBatch(ctx, `
		INSERT INTO price_ticks (mint, timestamp_ms, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, tick := range ticks {
		if err := batch.Append(tick.Mint, uint64(tick.TimestampMs), tick.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
