// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Decoder metrics make backend contract drift visible.
var (
	// DecodePagesTotal counts decoded pages by result (ok, corrupted)
	DecodePagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decode_pages_total",
			Help: "Total number of feed pages decoded",
		},
		[]string{"result"},
	)

	// DecodeEntriesTotal counts successfully decoded entries by kind
	DecodeEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decode_entries_total",
			Help: "Total number of feed entries decoded",
		},
		[]string{"kind"},
	)

	// DecodeEntriesSkippedTotal counts entries dropped from a page
	DecodeEntriesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decode_entries_skipped_total",
			Help: "Total number of feed entries skipped because a required field failed",
		},
		[]string{"kind", "field"},
	)

	// DecodeCoercionsTotal counts present-but-malformed fields replaced by a default
	DecodeCoercionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decode_coercions_total",
			Help: "Total number of malformed field values replaced by their default",
		},
		[]string{"entity", "field"},
	)

	// DecodeUnknownNodesTotal counts rich-text nodes with an unrecognized type
	DecodeUnknownNodesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decode_unknown_nodes_total",
			Help: "Total number of rich-text nodes decoded as unknown",
		},
	)

	// DecodeDuration measures the time to decode one page
	DecodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "decode_duration_seconds",
			Help:    "Time taken to decode a feed page",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
	)
)

// Backend metrics track the upstream news API
var (
	// BackendFetchDuration measures backend page fetches by source
	BackendFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_fetch_duration_seconds",
			Help:    "Time taken to fetch a page from the backend",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"source"},
	)

	// BackendFetchErrors counts backend fetch failures by source and error type
	BackendFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_fetch_errors_total",
			Help: "Total number of backend fetch errors",
		},
		[]string{"source", "error_type"},
	)

	// ContentFetchAttemptsTotal counts article text enrichment attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Ad metrics track the display lifecycle
var (
	// AdTransitionsTotal counts lifecycle transitions by target state
	AdTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_transitions_total",
			Help: "Total number of ad lifecycle transitions",
		},
		[]string{"placement", "state", "reason"},
	)

	// AdReportsTotal counts outbound ad reports by event and result
	AdReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_reports_total",
			Help: "Total number of ad event reports sent",
		},
		[]string{"event", "result"},
	)

	// AdSessionsActive tracks ad instances currently held by the registry
	AdSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ad_sessions_active",
			Help: "Number of ad instances tracked by the registry",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
