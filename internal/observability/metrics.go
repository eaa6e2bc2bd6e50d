// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Feed metrics
	EventsReceived  prometheus.Counter
	MalformedEvents prometheus.Counter
	FeedReconnects  prometheus.Counter

	// Enrichment metrics
	RecordsEnriched    prometheus.Counter
	EnrichmentFailures prometheus.Counter
	EnrichmentLatency  prometheus.Histogram

	// Ingestion metrics
	FlushBatches   prometheus.Counter
	RecordsFlushed prometheus.Counter
	BufferSize     prometheus.Gauge
	TokensStored   prometheus.Gauge
	PausedTicks    prometheus.Counter

	// Price simulation metrics
	PriceTicks    prometheus.Counter
	ArchiveErrors prometheus.Counter

	// Watchlist metrics
	WatchlistToggles prometheus.CounterVec
	WatchlistErrors  prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pumpwatch"
	}

	return &Metrics{
		EventsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "events_received_total",
			Help:      "Total number of well-formed feed events received",
		}),
		MalformedEvents: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "malformed_events_total",
			Help:      "Total number of feed events dropped as malformed",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of feed reconnect attempts",
		}),

		RecordsEnriched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrich",
			Name:      "records_enriched_total",
			Help:      "Total number of records with metadata successfully fetched",
		}),
		EnrichmentFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrich",
			Name:      "failures_total",
			Help:      "Total number of metadata fetches that failed; records are forwarded anyway",
		}),
		EnrichmentLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enrich",
			Name:      "fetch_latency_seconds",
			Help:      "Metadata fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		FlushBatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "flush_batches_total",
			Help:      "Total number of non-empty buffer flushes",
		}),
		RecordsFlushed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "records_flushed_total",
			Help:      "Total number of records moved from buffer to store",
		}),
		BufferSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "buffer_size",
			Help:      "Current number of records awaiting flush",
		}),
		TokensStored: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "tokens_stored",
			Help:      "Current number of records in the token store",
		}),
		PausedTicks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "paused_ticks_total",
			Help:      "Total number of flush ticks skipped while paused",
		}),

		PriceTicks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price",
			Name:      "ticks_total",
			Help:      "Total number of price samples generated",
		}),
		ArchiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price",
			Name:      "archive_errors_total",
			Help:      "Total number of failed price archive writes",
		}),

		WatchlistToggles: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "toggles_total",
			Help:      "Total number of watchlist toggles by action",
		}, []string{"action"}),
		WatchlistErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "persistence_errors_total",
			Help:      "Total number of watchlist persistence failures",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventReceived increments the feed events received counter.
func RecordEventReceived() {
	DefaultMetrics.EventsReceived.Inc()
}

// RecordMalformedEvent increments the malformed events counter.
func RecordMalformedEvent() {
	DefaultMetrics.MalformedEvents.Inc()
}

// RecordFeedReconnect increments the feed reconnect counter.
func RecordFeedReconnect() {
	DefaultMetrics.FeedReconnects.Inc()
}

// RecordEnriched increments the enriched records counter.
func RecordEnriched() {
	DefaultMetrics.RecordsEnriched.Inc()
}

// RecordEnrichmentFailure increments the enrichment failure counter.
func RecordEnrichmentFailure() {
	DefaultMetrics.EnrichmentFailures.Inc()
}

// RecordEnrichmentLatency records one metadata fetch duration.
func RecordEnrichmentLatency(seconds float64) {
	DefaultMetrics.EnrichmentLatency.Observe(seconds)
}

// RecordFlush records one non-empty flush of n records.
func RecordFlush(n int) {
	DefaultMetrics.FlushBatches.Inc()
	DefaultMetrics.RecordsFlushed.Add(float64(n))
}

// RecordPausedTick increments the paused-tick counter.
func RecordPausedTick() {
	DefaultMetrics.PausedTicks.Inc()
}

// UpdateBufferSize updates the buffer size gauge.
func UpdateBufferSize(n int) {
	DefaultMetrics.BufferSize.Set(float64(n))
}

// UpdateTokensStored updates the stored tokens gauge.
func UpdateTokensStored(n int) {
	DefaultMetrics.TokensStored.Set(float64(n))
}

// RecordPriceTicks adds n generated price samples.
func RecordPriceTicks(n int) {
	DefaultMetrics.PriceTicks.Add(float64(n))
}

// RecordArchiveError increments the price archive error counter.
func RecordArchiveError() {
	DefaultMetrics.ArchiveErrors.Inc()
}

// RecordWatchlistToggle records one toggle ("add" or "remove").
func RecordWatchlistToggle(action string) {
	DefaultMetrics.WatchlistToggles.WithLabelValues(action).Inc()
}

// RecordWatchlistError increments the watchlist persistence error counter.
func RecordWatchlistError() {
	DefaultMetrics.WatchlistErrors.Inc()
}
