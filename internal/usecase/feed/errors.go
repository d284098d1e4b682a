// Package feed provides the use case that turns a configured source into a
// decoded, enriched feed page.
package feed

import "errors"

// Sentinel errors for feed use case operations.
var (
	// ErrUnknownSourceType indicates a source whose type has no reader.
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrSourceUnavailable indicates that no client is configured for the source type.
	ErrSourceUnavailable = errors.New("no client configured for source type")
)
