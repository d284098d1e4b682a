// Package metrics holds the Prometheus collectors of the API and the worker.
//
// Collectors are package-level and registered on the default registry by
// promauto. Code records through the Record* helpers rather than touching
// the vectors, so label sets stay consistent:
//
//	metrics.RecordEntrySkipped("poll", "total_votes")
//	metrics.RecordAdTransition("interstitial", "shown", "")
//
// Packages with metrics of their own (the circuit breaker, retry, the
// worker) register them next to their code.
package metrics
