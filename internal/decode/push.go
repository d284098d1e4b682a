package decode

import (
	"fmt"

	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
)

// pushKeys are the message data keys that may carry a news entry, in lookup order.
var pushKeys = []string{"news_item", "payload"}

// DecodePush decodes the feed entry carried by a push message. The deliverer
// hands over the message data as string pairs with the entry JSON under
// news_item or payload.
func DecodePush(data map[string]string) (entity.FeedEntry, error) {
	for _, key := range pushKeys {
		raw, ok := data[key]
		if !ok || raw == "" {
			continue
		}
		if !gjson.Valid(raw) {
			return entity.FeedEntry{}, fmt.Errorf("push key %s: %w", key, ErrPayloadCorrupted)
		}
		return DecodeEntry(gjson.Parse(raw))
	}
	return entity.FeedEntry{}, ErrPushPayloadMissing
}
