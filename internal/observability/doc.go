// Package observability is the parent of the logging, metrics and tracing
// packages shared by cmd/api, cmd/worker and cmd/feedcat.
//
// A binary configures all three at startup:
//
//	logger := logging.NewLogger(logging.Options{}) // LOG_LEVEL, LOG_FORMAT
//	slog.SetDefault(logger)
//	shutdown := tracing.Setup(pkgconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1))
//	defer shutdown(ctx)
//
// Metrics need no setup; they are served on /metrics by the API and on
// METRICS_PORT by the worker.
package observability
