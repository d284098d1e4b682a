// Package decode turns heterogeneous backend JSON into the normalized feed model.
//
// Every entity declares its wire fields as a table of tolerant rules (see Rule),
// so a number sent as a string, a missing optional key or an unknown enum value
// degrade to documented defaults instead of failing. Only required fields abort
// the decode of a single entry; only invalid JSON aborts a page.
//
// Examples of the tolerance, for an int64 field:
//
//	"view_count": 12        -> 12
//	"view_count": "12"      -> 12
//	"view_count": 1e3       -> 1000
//	"view_count": "twelve"  -> 0, recorded as malformed
//	"view_count": 1e20      -> 0, recorded as malformed
//	(key absent)            -> 0
//
// Rich text bodies arrive either as a node list or as HTML; both end up as
// []entity.TextNode, each node carrying only the fields of its type.
package decode

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
)

type envelope struct {
	ID          string
	Title       string
	SpecialType string
}

var envelopeFields = []field[envelope]{
	{key: "id", rule: RuleID, set: setString(func(e *envelope) *string { return &e.ID })},
	{key: "title", rule: RuleString, required: true, set: setString(func(e *envelope) *string { return &e.Title })},
	{key: "special_type", rule: RuleString, set: setString(func(e *envelope) *string { return &e.SpecialType })},
}

// KindOf maps a special_type discriminator to an entry kind.
// Anything other than "ad" and "poll", including an empty value, is an article.
func KindOf(specialType string) entity.EntryKind {
	switch strings.ToLower(strings.TrimSpace(specialType)) {
	case "ad":
		return entity.KindAdvertisement
	case "poll":
		return entity.KindPoll
	}
	return entity.KindArticle
}

// DecodeEntry decodes one feed entry. The variant is chosen once from
// special_type and decoded from the same object. The returned error wraps
// entity.ErrRequiredField when the entry has to be skipped.
func DecodeEntry(obj gjson.Result) (entity.FeedEntry, error) {
	if !obj.IsObject() {
		return entity.FeedEntry{}, &entity.FieldError{Entity: "entry", Field: "(root)", Reason: "not an object"}
	}

	var env envelope
	if err := applyFields("entry", obj, envelopeFields, &env); err != nil {
		return entity.FeedEntry{}, err
	}

	kind := KindOf(env.SpecialType)
	switch kind {
	case entity.KindAdvertisement:
		ad, err := DecodeAd(obj)
		if err != nil {
			return entity.FeedEntry{}, fmt.Errorf("decode %s %s: %w", kind, env.ID, err)
		}
		return entity.NewAdEntry(env.ID, env.Title, ad), nil
	case entity.KindPoll:
		p, err := DecodePoll(obj)
		if err != nil {
			return entity.FeedEntry{}, fmt.Errorf("decode %s %s: %w", kind, env.ID, err)
		}
		p.ID = env.ID
		return entity.NewPollEntry(env.ID, env.Title, p), nil
	default:
		a, err := DecodeArticle(obj)
		if err != nil {
			return entity.FeedEntry{}, fmt.Errorf("decode %s %s: %w", kind, env.ID, err)
		}
		a.ID = env.ID
		return entity.NewArticleEntry(env.ID, env.Title, a), nil
	}
}
