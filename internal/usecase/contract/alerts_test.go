package contract

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/observability/slo"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

func reportOf(results ...Result) *Report {
	return &Report{Results: results, Sources: len(results)}
}

func TestAlerter_BreachAndRecovery(t *testing.T) {
	tracker := slo.NewTracker(1)
	notifier := &recordingNotifier{}
	alerter := &Alerter{Notifier: notifier, Tracker: tracker}
	ctx := context.Background()

	// Healthy first run: nothing to announce.
	tracker.Observe("alerts-top", true, 10, 0)
	assert.Empty(t, alerter.Process(ctx, reportOf(Result{Source: "alerts-top", Entries: 10})))

	fetchErr := errors.New("unexpected status: 502")
	tracker.Observe("alerts-top", false, 0, 0)
	alerts := alerter.Process(ctx, reportOf(Result{Source: "alerts-top", Err: fetchErr}))
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertBreached, alerts[0].Kind)
	assert.Equal(t, "unexpected status: 502", alerts[0].LastError)
	assert.True(t, alerts[0].Status.Breached)

	// Still breached: no repeat.
	tracker.Observe("alerts-top", false, 0, 0)
	assert.Empty(t, alerter.Process(ctx, reportOf(Result{Source: "alerts-top", Err: fetchErr})))

	tracker.Observe("alerts-top", true, 10, 0)
	alerts = alerter.Process(ctx, reportOf(Result{Source: "alerts-top", Entries: 10}))
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertRecovered, alerts[0].Kind)
	assert.Empty(t, alerts[0].LastError)

	require.Len(t, notifier.alerts, 2)
	assert.Equal(t, AlertBreached, notifier.alerts[0].Kind)
	assert.Equal(t, AlertRecovered, notifier.alerts[1].Kind)
}

func TestAlerter_NotifierFailureKeepsTransition(t *testing.T) {
	tracker := slo.NewTracker(1)
	notifier := &recordingNotifier{err: errors.New("webhook down")}
	alerter := &Alerter{Notifier: notifier, Tracker: tracker}

	tracker.Observe("alerts-skip", true, 1, 9)
	alerts := alerter.Process(context.Background(), reportOf(Result{Source: "alerts-skip", Entries: 1, Skipped: 9}))
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertBreached, alerts[0].Kind)

	tracker.Observe("alerts-skip", true, 1, 9)
	assert.Empty(t, alerter.Process(context.Background(), reportOf(Result{Source: "alerts-skip", Entries: 1, Skipped: 9})))
	assert.Len(t, notifier.alerts, 1)
}

func TestAlerter_WithoutTracker(t *testing.T) {
	alerter := &Alerter{}
	assert.Nil(t, alerter.Process(context.Background(), reportOf(Result{Source: "x"})))
}
