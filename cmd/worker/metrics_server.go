package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsfeed/internal/handler/http/respond"
	"newsfeed/internal/observability/slo"
	pkgconfig "newsfeed/pkg/config"
)

// SourceHealthResponse is the body of GET /health/sources.
type SourceHealthResponse struct {
	Healthy bool         `json:"healthy"`
	Sources []slo.Status `json:"sources"`
}

// statusSource supplies the windowed contract status of every source.
type statusSource interface {
	Snapshot() []slo.Status
}

// startMetricsServer serves the worker's scrape endpoints on METRICS_PORT
// (default 9090) until ctx is cancelled:
//   - GET /metrics: Prometheus metrics
//   - GET /health/sources: contract status per source, 503 while any source
//     misses its objectives
func startMetricsServer(ctx context.Context, logger *slog.Logger, tracker statusSource) *http.Server {
	port := pkgconfig.LoadInt("METRICS_PORT", 9090, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 65535)
	}).Value

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           metricsMux(tracker),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
			return
		}
		logger.Info("metrics server stopped")
	}()

	return server
}

func metricsMux(tracker statusSource) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health/sources", sourceHealthHandler(tracker))
	return mux
}

func sourceHealthHandler(tracker statusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		statuses := tracker.Snapshot()
		healthy := true
		for _, s := range statuses {
			if s.Breached {
				healthy = false
				break
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(w, code, SourceHealthResponse{Healthy: healthy, Sources: statuses})
	}
}
