package decode

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

// listKeys are the object keys that may hold the entry list, in lookup order.
var listKeys = []string{"items", "list", "data", "news"}

// Page is one decoded response. Entries keep the backend order.
type Page struct {
	Entries []entity.FeedEntry `json:"entries"`
	Skipped []SkippedEntry     `json:"skipped,omitempty"`
}

// SkippedEntry records an entry dropped because a required field failed.
type SkippedEntry struct {
	Index  int              `json:"index"`
	ID     string           `json:"id,omitempty"`
	Kind   entity.EntryKind `json:"kind"`
	Field  string           `json:"field,omitempty"`
	Reason string           `json:"reason"`
}

// DecodePage decodes a feed page. The body may be a top-level array of entries
// or an object holding the array under one of items, list, data or news.
//
// Invalid JSON returns ErrPayloadCorrupted and no page. Entries that fail are
// listed in Page.Skipped; the rest of the page is kept.
func DecodePage(data []byte) (*Page, error) {
	start := time.Now()

	if !gjson.ValidBytes(data) {
		metrics.RecordPageDecoded("corrupted", time.Since(start))
		return nil, ErrPayloadCorrupted
	}

	list, ok := entryList(gjson.ParseBytes(data))
	if !ok {
		metrics.RecordPageDecoded("corrupted", time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrPayloadCorrupted, ErrNoEntryList)
	}

	page := &Page{Entries: []entity.FeedEntry{}}
	index := 0
	list.ForEach(func(_, item gjson.Result) bool {
		entry, err := DecodeEntry(item)
		if err != nil {
			page.Skipped = append(page.Skipped, skipped(index, item, err))
		} else {
			page.Entries = append(page.Entries, entry)
			metrics.RecordEntryDecoded(entry.Kind.String())
		}
		index++
		return true
	})

	metrics.RecordPageDecoded("ok", time.Since(start))
	if len(page.Skipped) > 0 {
		slog.Info("feed page decoded with skipped entries",
			slog.Int("entries", len(page.Entries)),
			slog.Int("skipped", len(page.Skipped)))
	}
	return page, nil
}

func entryList(root gjson.Result) (gjson.Result, bool) {
	if root.IsArray() {
		return root, true
	}
	if !root.IsObject() {
		return gjson.Result{}, false
	}
	for _, key := range listKeys {
		v := root.Get(key)
		if v.IsArray() {
			return v, true
		}
		// {"data": {"items": [...]}}
		if v.IsObject() {
			if inner, ok := entryList(v); ok {
				return inner, true
			}
		}
	}
	return gjson.Result{}, false
}

func skipped(index int, item gjson.Result, err error) SkippedEntry {
	s := SkippedEntry{
		Index:  index,
		ID:     item.Get("id").String(),
		Kind:   KindOf(item.Get("special_type").String()),
		Reason: err.Error(),
	}
	var fe *entity.FieldError
	if errors.As(err, &fe) {
		s.Field = fe.Field
	}
	metrics.RecordEntrySkipped(s.Kind.String(), s.Field)
	slog.Debug("feed entry skipped",
		slog.Int("index", index),
		slog.String("id", s.ID),
		slog.String("kind", s.Kind.String()),
		slog.Any("error", err))
	return s
}
