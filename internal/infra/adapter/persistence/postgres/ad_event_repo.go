package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsfeed/internal/resilience/circuitbreaker"
	"newsfeed/internal/resilience/retry"
	"newsfeed/internal/usecase/ad"
)

// AdEventRepo stores ad events. It implements ad.Reporter and ad.StatsStore.
type AdEventRepo struct {
	db          *circuitbreaker.DB
	retryConfig retry.Config
}

// NewAdEventRepo wraps db with the store circuit breaker.
func NewAdEventRepo(db *sql.DB) *AdEventRepo {
	return &AdEventRepo{
		db:          circuitbreaker.NewDB(db),
		retryConfig: retry.DBConfig(),
	}
}

// Report inserts ev. A second event of the same type for the same instance is
// ignored, so retried or duplicated reports are stored once.
func (repo *AdEventRepo) Report(ctx context.Context, ev ad.Event) error {
	const query = `
INSERT INTO ad_events (event_id, event_type, instance_id, ad_id, banner_id, placement, reason, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (instance_id, event_type) DO NOTHING`

	var reason sql.NullString
	if ev.Type == ad.EventClose {
		reason = sql.NullString{String: ev.Reason.String(), Valid: true}
	}

	err := retry.WithBackoff(ctx, repo.retryConfig, func() error {
		_, err := repo.db.ExecContext(ctx, query,
			uuid.NewString(), string(ev.Type), ev.InstanceID, ev.AdID, ev.BannerID,
			ev.Placement.String(), reason, ev.At.UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("Report: %w", err)
	}
	return nil
}

// Stats aggregates the events of adID that occurred at or after since.
func (repo *AdEventRepo) Stats(ctx context.Context, adID int64, since time.Time) (*ad.Stats, error) {
	const query = `
SELECT event_type, COALESCE(reason, ''), COUNT(*)
FROM ad_events
WHERE ad_id = $1 AND occurred_at >= $2
GROUP BY event_type, reason`

	rows, err := repo.db.QueryContext(ctx, query, adID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("Stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &ad.Stats{AdID: adID, ByReason: map[string]int64{}}
	for rows.Next() {
		var typ, reason string
		var n int64
		if err := rows.Scan(&typ, &reason, &n); err != nil {
			return nil, fmt.Errorf("Stats: scan: %w", err)
		}
		switch ad.EventType(typ) {
		case ad.EventImpression:
			stats.Impressions += n
		case ad.EventClose:
			stats.Closes += n
			stats.ByReason[reason] += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Stats: %w", err)
	}
	return stats, nil
}

// Purge deletes events older than before and returns how many were removed.
func (repo *AdEventRepo) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM ad_events WHERE occurred_at < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("Purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("Purge: %w", err)
	}
	return n, nil
}
