package ad

import (
	"context"
	"time"
)

// Stats aggregates the stored events of one ad.
type Stats struct {
	AdID        int64            `json:"ad_id"`
	Impressions int64            `json:"impressions"`
	Closes      int64            `json:"closes"`
	ByReason    map[string]int64 `json:"by_reason"`
}

// StatsStore reads aggregated ad events.
type StatsStore interface {
	Stats(ctx context.Context, adID int64, since time.Time) (*Stats, error)
}
