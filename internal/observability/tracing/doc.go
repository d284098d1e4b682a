// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP Middleware starts a server span per request and returns the trace
// id in the X-Trace-Id header. Use cases start child spans with GetTracer; the
// feed service wraps every page load in a "feed.Page" span.
//
// Binaries call Setup to install the SDK provider. No exporter is wired by
// default; pass span processors to Setup to export.
package tracing
