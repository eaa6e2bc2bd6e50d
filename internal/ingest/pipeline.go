// Package ingest wires the feed connector, enrichment workers, buffer, token
// store and price simulator into one pipeline. A single goroutine owns the
// select loop, so the buffer, the store and the price windows are only ever
// mutated by their tick handlers and two timers can never interleave.
package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/enrich"
	"pumpwatch/internal/feed"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/price"
	"pumpwatch/internal/storage"
)

// Pipeline runs the ingestion loop: feed events are enriched, buffered, and
// flushed into the token store on a user-controlled cadence, while the price
// simulator ticks on its own fixed timer. Pause skips both tick handlers;
// buffered records keep accumulating.
type Pipeline struct {
	connector *feed.Connector
	fetcher   *enrich.Fetcher
	buffer    *Buffer
	tokens    storage.TokenStore
	simulator *price.Simulator

	enrichWorkers int
	priceTick     time.Duration
	now           func() int64
	log           *logrus.Entry

	paused     atomic.Bool
	intervalMu sync.Mutex
	interval   domain.UpdateInterval
	intervalCh chan domain.UpdateInterval
}

// Options contains configuration for creating a Pipeline.
type Options struct {
	Connector *feed.Connector
	Fetcher   *enrich.Fetcher
	Tokens    storage.TokenStore
	Simulator *price.Simulator

	// UpdateInterval is the initial flush cadence. Defaults to 1s.
	UpdateInterval domain.UpdateInterval
	// EnrichWorkers bounds concurrent metadata fetches. Defaults to 4.
	EnrichWorkers int
	// PriceTickInterval defaults to 1s.
	PriceTickInterval time.Duration
	// Now returns the current Unix time in milliseconds, stamped on records
	// at flush.
	Now    func() int64
	Logger *logrus.Entry
}

// NewPipeline creates a pipeline.
func NewPipeline(opts Options) *Pipeline {
	interval := opts.UpdateInterval
	if !interval.IsValid() {
		interval = domain.Interval1s
	}
	workers := opts.EnrichWorkers
	if workers <= 0 {
		workers = 4
	}
	tick := opts.PriceTickInterval
	if tick <= 0 {
		tick = price.DefaultTickInterval
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Pipeline{
		connector:     opts.Connector,
		fetcher:       opts.Fetcher,
		buffer:        NewBuffer(),
		tokens:        opts.Tokens,
		simulator:     opts.Simulator,
		enrichWorkers: workers,
		priceTick:     tick,
		now:           now,
		log:           log.WithField("component", "ingest"),
		interval:      interval,
		intervalCh:    make(chan domain.UpdateInterval, 1),
	}
}

// Run drives the pipeline until ctx is cancelled. No pipeline error is
// fatal; the only way out is cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	events := p.connector.Start(ctx)
	enriched := p.fetcher.Run(ctx, events, p.enrichWorkers)

	flushTicker := time.NewTicker(p.Interval().Duration())
	defer flushTicker.Stop()

	priceTicker := time.NewTicker(p.priceTick)
	defer priceTicker.Stop()

	p.log.Infof("pipeline started, flush interval %v", p.Interval().Duration())

	for {
		select {
		case <-ctx.Done():
			p.log.Info("pipeline stopping")
			return ctx.Err()

		case rec, ok := <-enriched:
			if !ok {
				// Connector closed after cancellation; drain ends here.
				return ctx.Err()
			}
			p.buffer.Append(rec)
			observability.UpdateBufferSize(p.buffer.Len())

		case iv := <-p.intervalCh:
			flushTicker.Reset(iv.Duration())
			p.log.Infof("flush interval set to %v", iv.Duration())

		case <-flushTicker.C:
			p.flush(ctx)

		case <-priceTicker.C:
			if p.paused.Load() {
				continue
			}
			if _, err := p.simulator.Tick(ctx); err != nil && ctx.Err() == nil {
				p.log.WithError(err).Warn("price tick failed")
			}
		}
	}
}

// flush moves the whole buffer into the token store as one prepended batch.
// A paused tick is a no-op; an empty buffer is a no-op.
func (p *Pipeline) flush(ctx context.Context) {
	if p.paused.Load() {
		observability.RecordPausedTick()
		return
	}

	batch := p.buffer.DrainAll()
	if len(batch) == 0 {
		return
	}

	ts := p.now()
	for _, rec := range batch {
		rec.DiscoveredAt = ts
	}

	if err := p.tokens.PrependBatch(ctx, batch); err != nil {
		p.log.WithError(err).Error("flush failed, records dropped")
		return
	}

	observability.RecordFlush(len(batch))
	observability.UpdateBufferSize(0)
	if n, err := p.tokens.Len(ctx); err == nil {
		observability.UpdateTokensStored(n)
	}
	p.log.WithField("count", len(batch)).Debug("flushed batch")
}

// Pause suspends flush and price ticks starting with the next tick.
func (p *Pipeline) Pause() { p.paused.Store(true) }

// Resume re-enables flush and price ticks.
func (p *Pipeline) Resume() { p.paused.Store(false) }

// Paused reports whether the pipeline is paused.
func (p *Pipeline) Paused() bool { return p.paused.Load() }

// SetUpdateInterval changes the flush cadence, effective at the next loop
// iteration. Only the recognized presets are accepted.
func (p *Pipeline) SetUpdateInterval(iv domain.UpdateInterval) error {
	if !iv.IsValid() {
		return domain.ErrInvalidInterval
	}

	p.intervalMu.Lock()
	p.interval = iv
	p.intervalMu.Unlock()

	// Replace any pending change; the loop only needs the latest value.
	select {
	case <-p.intervalCh:
	default:
	}
	p.intervalCh <- iv
	return nil
}

// Interval returns the current flush cadence.
func (p *Pipeline) Interval() domain.UpdateInterval {
	p.intervalMu.Lock()
	defer p.intervalMu.Unlock()
	return p.interval
}

// Buffered returns the number of records awaiting flush.
func (p *Pipeline) Buffered() int { return p.buffer.Len() }

// FeedStatus returns the connector's connectivity snapshot.
func (p *Pipeline) FeedStatus() feed.Status { return p.connector.Status() }
