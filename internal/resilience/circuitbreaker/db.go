package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DB guards a *sql.DB with a circuit breaker. Calls fail with
// gobreaker.ErrOpenState without touching the pool while the circuit is open.
type DB struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig returns configuration for the ad event store.
// The circuit opens only when every one of at least five requests failed.
func DBConfig() Config {
	return Config{
		Name:             "ad-event-store",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDB wraps db with DBConfig.
func NewDB(db *sql.DB) *DB {
	return NewDBWithConfig(db, DBConfig())
}

// NewDBWithConfig wraps db with a custom configuration.
func NewDBWithConfig(db *sql.DB, cfg Config) *DB {
	return &DB{cb: New(cfg), db: db}
}

// QueryContext runs a query through the breaker.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return Run(d.cb, func() (*sql.Rows, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
}

// ExecContext runs a statement through the breaker.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Run(d.cb, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// State returns the breaker state.
func (d *DB) State() gobreaker.State {
	return d.cb.State()
}

// IsOpen reports whether the breaker is open.
func (d *DB) IsOpen() bool {
	return d.cb.IsOpen()
}

// Unwrap returns the underlying pool for calls that bypass the breaker,
// such as migrations and health pings.
func (d *DB) Unwrap() *sql.DB {
	return d.db
}
