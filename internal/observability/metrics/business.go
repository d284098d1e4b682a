package metrics

import (
	"time"
)

// RecordPageDecoded records one decoded page and how long it took.
// Result should be "ok" or "corrupted".
func RecordPageDecoded(result string, duration time.Duration) {
	DecodePagesTotal.WithLabelValues(result).Inc()
	DecodeDuration.Observe(duration.Seconds())
}

// RecordEntryDecoded records an entry that made it into a page.
func RecordEntryDecoded(kind string) {
	DecodeEntriesTotal.WithLabelValues(kind).Inc()
}

// RecordEntrySkipped records an entry dropped because of a required field.
func RecordEntrySkipped(kind, field string) {
	DecodeEntriesSkippedTotal.WithLabelValues(kind, field).Inc()
}

// RecordCoercion records a malformed value that was replaced by its default.
func RecordCoercion(entity, field string) {
	DecodeCoercionsTotal.WithLabelValues(entity, field).Inc()
}

// RecordUnknownNode records a rich-text node decoded as unknown.
func RecordUnknownNode() {
	DecodeUnknownNodesTotal.Inc()
}

// RecordBackendFetch records the duration of a backend fetch.
func RecordBackendFetch(source string, duration time.Duration) {
	BackendFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordBackendFetchError records a backend fetch failure.
func RecordBackendFetchError(source, errorType string) {
	BackendFetchErrors.WithLabelValues(source, errorType).Inc()
}

// RecordContentFetchSuccess records a successful content fetch operation.
//
// Example:
//
//	start := time.Now()
//	content, err := fetcher.FetchContent(ctx, url)
//	if err == nil {
//	    RecordContentFetchSuccess(time.Since(start))
//	}
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch operation.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records an article whose text was already present.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordAdTransition records a lifecycle transition. Reason is empty for non-close transitions.
func RecordAdTransition(placement, state, reason string) {
	AdTransitionsTotal.WithLabelValues(placement, state, reason).Inc()
}

// RecordAdReport records the outcome of an outbound ad report.
func RecordAdReport(event string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AdReportsTotal.WithLabelValues(event, result).Inc()
}

// SetAdSessions updates the number of tracked ad instances.
func SetAdSessions(n int) {
	AdSessionsActive.Set(float64(n))
}
