package db

import (
	"context"
	"database/sql"
	"fmt"
)

// One row per event; the unique index enforces a single impression and a
// single close per ad instance even when a report is retried.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ad_events (
    id           BIGSERIAL PRIMARY KEY,
    event_id     UUID NOT NULL,
    event_type   VARCHAR(16) NOT NULL,
    instance_id  TEXT NOT NULL,
    ad_id        BIGINT NOT NULL,
    banner_id    BIGINT NOT NULL DEFAULT 0,
    placement    VARCHAR(32) NOT NULL,
    reason       VARCHAR(32),
    occurred_at  TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ad_events_instance_type ON ad_events(instance_id, event_type)`,
	`CREATE INDEX IF NOT EXISTS idx_ad_events_ad_occurred ON ad_events(ad_id, occurred_at DESC)`,
}

// MigrateUp creates the schema. Every statement is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
