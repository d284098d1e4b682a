package decode

import "errors"

var (
	// ErrPayloadCorrupted indicates a page body that is not valid JSON.
	// No partial result is returned with it.
	ErrPayloadCorrupted = errors.New("feed payload is not valid JSON")

	// ErrNoEntryList indicates a valid JSON document without a recognizable entry list.
	ErrNoEntryList = errors.New("feed payload has no entry list")

	// ErrPushPayloadMissing indicates a push message without a news payload key.
	ErrPushPayloadMissing = errors.New("push message carries no news payload")
)
