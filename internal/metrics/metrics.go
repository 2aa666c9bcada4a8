// Package metrics exposes Prometheus counters and histograms for the HTTP
// surface and the ingestion/aggregation engine.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingestion metrics.
	IngestorStreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestor_stream_errors_total",
			Help: "Total number of stream/fetch errors observed by an exchange ingestor",
		},
		[]string{"exchange", "strategy"},
	)

	IngestorTradesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestor_trades_processed_total",
			Help: "Total number of trades folded into price/volume state",
		},
		[]string{"exchange", "symbol"},
	)

	// Aggregation metrics.
	AggregatorQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_queries_total",
			Help: "Total number of get_value queries by outcome",
		},
		[]string{"outcome"},
	)

	AggregatorBackfillsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_backfills_total",
			Help: "Total number of cold-start REST backfills triggered",
		},
		[]string{"feed"},
	)

	ExchangeAdaptersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "exchange_adapters_active",
			Help: "Number of exchange adapters currently ingesting trades",
		},
	)
)

// RecordHttpRequest records one completed HTTP request.
func RecordHttpRequest(method, path string, statusCode int, durationSeconds float64) {
	HttpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HttpRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordStreamError records one stream/fetch failure for an exchange ingestor.
func RecordStreamError(exchange, strategy string) {
	IngestorStreamErrorsTotal.WithLabelValues(exchange, strategy).Inc()
}

// RecordTradesProcessed increments the trade counter for (exchange, symbol).
func RecordTradesProcessed(exchange, symbol string, n int) {
	IngestorTradesProcessedTotal.WithLabelValues(exchange, symbol).Add(float64(n))
}

// RecordQuery records one get_value outcome ("ok" or "absent").
func RecordQuery(outcome string) {
	AggregatorQueriesTotal.WithLabelValues(outcome).Inc()
}

// RecordBackfill records a cold-start backfill attempt for a feed key.
func RecordBackfill(feedKey string) {
	AggregatorBackfillsTotal.WithLabelValues(feedKey).Inc()
}
