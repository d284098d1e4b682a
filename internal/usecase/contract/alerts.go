package contract

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newsfeed/internal/observability/slo"
)

// AlertKind says which way a source crossed its objectives.
type AlertKind string

const (
	AlertBreached  AlertKind = "breached"
	AlertRecovered AlertKind = "recovered"
)

// Alert announces a source starting or stopping to miss its objectives.
type Alert struct {
	Kind      AlertKind
	Status    slo.Status
	LastError string // empty when the last check succeeded
	At        time.Time
}

// Notifier delivers alerts to operators.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Alerter turns consecutive run reports into alerts. A source alerts once when
// it starts breaching and once when it recovers, not on every run.
type Alerter struct {
	Notifier Notifier
	Tracker  *slo.Tracker

	mu       sync.Mutex
	breached map[string]bool
}

// Process compares the tracker state for the sources in r with the previous
// run and notifies each transition. Delivery failures are logged; the
// transition is not retried on the next run.
func (a *Alerter) Process(ctx context.Context, r *Report) []Alert {
	if a.Tracker == nil || r == nil {
		return nil
	}

	statuses := make(map[string]slo.Status)
	for _, st := range a.Tracker.Snapshot() {
		statuses[st.Source] = st
	}

	now := time.Now()
	var alerts []Alert

	a.mu.Lock()
	if a.breached == nil {
		a.breached = make(map[string]bool)
	}
	for _, res := range r.Results {
		st, ok := statuses[res.Source]
		if !ok || st.Breached == a.breached[res.Source] {
			continue
		}
		a.breached[res.Source] = st.Breached

		alert := Alert{Kind: AlertRecovered, Status: st, At: now}
		if st.Breached {
			alert.Kind = AlertBreached
		}
		if res.Err != nil {
			alert.LastError = res.Err.Error()
		}
		alerts = append(alerts, alert)
	}
	a.mu.Unlock()

	for _, alert := range alerts {
		slog.Warn("source contract status changed",
			slog.String("source", alert.Status.Source),
			slog.String("kind", string(alert.Kind)),
			slog.Float64("availability", alert.Status.Availability),
			slog.Float64("skip_ratio", alert.Status.SkipRatio))
		if a.Notifier == nil {
			continue
		}
		if err := a.Notifier.Notify(ctx, alert); err != nil {
			slog.Error("failed to deliver contract alert",
				slog.String("source", alert.Status.Source),
				slog.String("kind", string(alert.Kind)),
				slog.Any("error", err))
		}
	}
	return alerts
}
