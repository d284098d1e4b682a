package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsfeed/internal/handler/http/pathutil"
	"newsfeed/internal/handler/http/responsewriter"
	"newsfeed/internal/observability/metrics"
)

var (
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// Request bodies are small: lifecycle calls send at most a close
	// reason and POST /auth/token two short strings. Buckets run
	// 64B, 256B, 1KB, 4KB, 16KB, 64KB so anything near the input
	// validation body limit lands in the top bucket.
	httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 6),
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware records request count, latency and sizes under the
// normalized route. Numeric ids and ad instance ids are collapsed by
// pathutil.NormalizePath so /ads/{instance}/close is one series, not one per
// ad shown:
//
//	/ads/7f3a9c21/close -> /ads/:instance/close
//	/ads/42/stats       -> /ads/:id/stats
//
// Requests without a body (GET, empty close) are not observed in the size
// histogram.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		path := pathutil.NormalizePath(r.URL.Path)
		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
		}

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.StatusCode()), time.Since(start), rw.BytesWritten())
	})
}

// MetricsHandler serves the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
