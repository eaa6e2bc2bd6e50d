// Package price produces the synthetic rolling price series used for
// sparkline rendering. It is explicitly a presentation mock: no price oracle
// exists upstream, so each tick perturbs the previous sample by a small
// random factor instead of reading a market.
package price

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"pumpwatch/internal/observability"
	"pumpwatch/internal/storage"
)

// DefaultTickInterval is the fixed cadence of the price tick.
const DefaultTickInterval = time.Second

// maxPerturbation bounds the per-tick multiplicative change at ±5%.
const maxPerturbation = 0.05

// Simulator advances every stored mint's price window by one sample per tick.
type Simulator struct {
	tokens  storage.TokenStore
	series  storage.PriceSeriesStore
	archive storage.PriceArchive // optional, best-effort
	perturb func() float64
	now     func() int64
	log     *logrus.Entry
}

// Options contains configuration for creating a Simulator.
type Options struct {
	Tokens  storage.TokenStore
	Series  storage.PriceSeriesStore
	Archive storage.PriceArchive
	// Perturb returns the fractional price change for one tick. Defaults to
	// a uniform draw in [-0.05, 0.05]; tests inject a deterministic source.
	Perturb func() float64
	// Now returns the current Unix time in milliseconds.
	Now    func() int64
	Logger *logrus.Entry
}

// NewSimulator creates a price simulator.
func NewSimulator(opts Options) *Simulator {
	perturb := opts.Perturb
	if perturb == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		perturb = func() float64 {
			return (rng.Float64()*2 - 1) * maxPerturbation
		}
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Simulator{
		tokens:  opts.Tokens,
		series:  opts.Series,
		archive: opts.Archive,
		perturb: perturb,
		now:     now,
		log:     log.WithField("component", "price"),
	}
}

// Tick advances every mint's window by one sample and returns the number of
// samples generated. A window is created lazily on a mint's first tick,
// seeded from the record's initial buy (or 0). Archive failures are logged
// and counted, never propagated.
func (s *Simulator) Tick(ctx context.Context) (int, error) {
	mints, err := s.tokens.Mints(ctx)
	if err != nil {
		return 0, err
	}

	ts := s.now()
	ticks := make([]storage.PriceTick, 0, len(mints))

	for _, mint := range mints {
		last, ok, err := s.series.Last(ctx, mint)
		if err != nil {
			return len(ticks), err
		}
		if !ok {
			last = s.seed(ctx, mint)
		}

		next := last * (1 + s.perturb())
		if err := s.series.Append(ctx, mint, next); err != nil {
			return len(ticks), err
		}
		ticks = append(ticks, storage.PriceTick{Mint: mint, TimestampMs: ts, Price: next})
	}

	observability.RecordPriceTicks(len(ticks))

	if s.archive != nil && len(ticks) > 0 {
		if err := s.archive.ArchiveTicks(ctx, ticks); err != nil {
			observability.RecordArchiveError()
			s.log.WithError(err).Warn("price archive write failed")
		}
	}

	return len(ticks), nil
}

// seed returns the starting price for a mint's first sample.
func (s *Simulator) seed(ctx context.Context, mint string) float64 {
	rec, err := s.tokens.GetByMint(ctx, mint)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).WithField("mint", mint).Warn("seed lookup failed")
		}
		return 0
	}
	return rec.InitialBuy
}
