// Package circuitbreaker guards calls that leave the process with
// github.com/sony/gobreaker and exports each breaker's state to Prometheus.
package circuitbreaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	// stateGauge is 0 closed, 1 half-open, 2 open.
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"circuit"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_transitions_total",
		Help: "Circuit breaker state changes by target state",
	}, []string{"circuit", "to"})
)

// Config describes when a breaker trips and how it recovers.
type Config struct {
	Name string

	// MaxRequests pass through while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; zero never clears.
	Interval time.Duration
	// Timeout is the open period before the breaker half-opens.
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests have been counted.
	FailureThreshold float64
	MinRequests      uint32
}

// BackendConfig guards the news backend. It is the only source of pages, so
// the breaker retries after 30s.
func BackendConfig() Config {
	return Config{Name: "news-backend", MaxRequests: 3, Interval: 30 * time.Second,
		Timeout: 30 * time.Second, FailureThreshold: 0.6, MinRequests: 5}
}

// FeedFetchConfig guards external RSS and Atom feeds.
func FeedFetchConfig() Config {
	return Config{Name: "feed-fetch", MaxRequests: 5, Interval: time.Minute,
		Timeout: 2 * time.Minute, FailureThreshold: 0.7, MinRequests: 10}
}

// ContentFetchConfig guards article page fetches for text enrichment.
func ContentFetchConfig() Config {
	return Config{Name: "content-fetch", MaxRequests: 5, Interval: time.Minute,
		Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5}
}

// ReportConfig guards the ad event collector. Reports are fire-and-forget, so
// a failing collector stays open for five minutes.
func ReportConfig() Config {
	return Config{Name: "ad-report", MaxRequests: 2, Interval: time.Minute,
		Timeout: 5 * time.Minute, FailureThreshold: 0.8, MinRequests: 10}
}

// CircuitBreaker is a named gobreaker breaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker from cfg and publishes its state as closed.
func New(cfg Config) *CircuitBreaker {
	stateGauge.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))

	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.Requests >= cfg.MinRequests &&
					float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
			},
			OnStateChange: onStateChange,
		}),
	}
}

func onStateChange(name string, from, to gobreaker.State) {
	stateGauge.WithLabelValues(name).Set(stateValue(to))
	transitionsTotal.WithLabelValues(name, to.String()).Inc()

	level := slog.LevelWarn
	if to == gobreaker.StateClosed {
		level = slog.LevelInfo
	}
	slog.Log(context.Background(), level, "circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Run calls fn through the breaker. While open it returns
// gobreaker.ErrOpenState without calling fn.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := res.(T) // nil when fn returned a nil interface
	return v, nil
}

// State returns the current state.
func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string { return cb.name }

// IsOpen reports whether calls are currently rejected.
func (cb *CircuitBreaker) IsOpen() bool { return cb.breaker.State() == gobreaker.StateOpen }
