// Package entity defines the normalized feed model produced by the decoder.
// Records are immutable values once decoded, except for the poll selection and
// the ad display state, which are owned by the layers that mutate them.
package entity

import (
	"fmt"
	"strings"
)

// EntryKind discriminates the payload carried by a FeedEntry.
type EntryKind int

const (
	// KindArticle is the default kind; unknown discriminators decode as articles.
	KindArticle EntryKind = iota
	KindAdvertisement
	KindPoll
)

var kindNames = map[EntryKind]string{
	KindArticle:       "article",
	KindAdvertisement: "advertisement",
	KindPoll:          "poll",
}

// String returns the lowercase kind name.
func (k EntryKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON output.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name. Unknown names map to KindArticle.
func (k *EntryKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "advertisement":
		*k = KindAdvertisement
	case "poll":
		*k = KindPoll
	default:
		*k = KindArticle
	}
	return nil
}

// FeedEntry is one discriminated item of a content feed.
// Exactly one of Article, Advertisement and Poll is set, matching Kind.
// Entries are built with NewArticleEntry, NewAdEntry and NewPollEntry so the
// payload is chosen once; consumers switch on Kind instead of probing pointers.
type FeedEntry struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Kind          EntryKind      `json:"kind"`
	Article       *Article       `json:"article,omitempty"`
	Advertisement *Advertisement `json:"advertisement,omitempty"`
	Poll          *Poll          `json:"poll,omitempty"`
}

// NewArticleEntry wraps an article payload.
func NewArticleEntry(id, title string, a *Article) FeedEntry {
	return FeedEntry{ID: id, Title: title, Kind: KindArticle, Article: a}
}

// NewAdEntry wraps an advertisement payload.
func NewAdEntry(id, title string, ad *Advertisement) FeedEntry {
	return FeedEntry{ID: id, Title: title, Kind: KindAdvertisement, Advertisement: ad}
}

// NewPollEntry wraps a poll payload.
func NewPollEntry(id, title string, p *Poll) FeedEntry {
	return FeedEntry{ID: id, Title: title, Kind: KindPoll, Poll: p}
}

// Validate checks the structural exclusivity of the payload fields.
func (e FeedEntry) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}

	set := 0
	for _, present := range []bool{e.Article != nil, e.Advertisement != nil, e.Poll != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("exactly one payload must be set, got %d", set)}
	}

	switch e.Kind {
	case KindArticle:
		if e.Article == nil {
			return &ValidationError{Field: "article", Message: "article payload missing for article entry"}
		}
	case KindAdvertisement:
		if e.Advertisement == nil {
			return &ValidationError{Field: "advertisement", Message: "advertisement payload missing for advertisement entry"}
		}
	case KindPoll:
		if e.Poll == nil {
			return &ValidationError{Field: "poll", Message: "poll payload missing for poll entry"}
		}
	default:
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("invalid kind %d", int(e.Kind))}
	}
	return nil
}
