// Package enrich resolves a record's content URI into descriptive metadata.
// The document is external and untrusted: a fetch may fail, time out, or
// return garbage, and in every such case the record is forwarded with empty
// metadata rather than dropped. No retry is performed.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
)

// DefaultFetchTimeout bounds one metadata fetch.
const DefaultFetchTimeout = 5 * time.Second

// Fetcher fetches metadata documents over plain HTTP GET.
type Fetcher struct {
	client *http.Client
	log    *logrus.Entry
}

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, log *logrus.Entry) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log.WithField("component", "enrich"),
	}
}

// Enrich fetches the record's URI and attaches the decoded metadata.
// On any failure the record is returned unchanged; partial data beats no
// data, and a failed fetch is logged, not surfaced.
func (f *Fetcher) Enrich(ctx context.Context, rec *domain.TokenRecord) *domain.TokenRecord {
	meta, err := f.fetch(ctx, rec.URI)
	if err != nil {
		observability.RecordEnrichmentFailure()
		f.log.WithError(err).WithField("uri", rec.URI).Debug("metadata fetch failed")
		return rec
	}
	observability.RecordEnriched()
	rec.Metadata = meta
	return rec
}

func (f *Fetcher) fetch(ctx context.Context, uri string) (*domain.TokenMetadata, error) {
	start := time.Now()
	defer func() {
		observability.RecordEnrichmentLatency(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch metadata: status %d", resp.StatusCode)
	}

	var meta domain.TokenMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

// Run starts a bounded worker pool enriching records from in. Slow fetches
// never stall feed intake: while one worker waits on the network the others
// keep draining. The returned channel closes once in is closed and every
// in-flight fetch has completed; results of fetches finishing after ctx
// cancellation are discarded.
func (f *Fetcher) Run(ctx context.Context, in <-chan *domain.TokenRecord, workers int) <-chan *domain.TokenRecord {
	if workers <= 0 {
		workers = 4
	}

	out := make(chan *domain.TokenRecord, 256)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for rec := range in {
				enriched := f.Enrich(ctx, rec)
				select {
				case out <- enriched:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
