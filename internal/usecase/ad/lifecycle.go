// Package ad owns the display lifecycle of advertisement instances: state
// transitions, exactly-once impression and close reports, and the auto-close
// countdown of full-screen placements.
package ad

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

const (
	countdownInterval = time.Second
	reportTimeout     = 10 * time.Second
)

// Option configures a Lifecycle or a Registry.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Lifecycle is the state machine of one ad instance.
//
//	NotReady|ReadyToShow --MarkShown--> Showed --Close--> Closed
//	NotReady --Close(LoadFailed)--> Closed
//
// Repeated MarkShown and Close calls are no-ops, so each instance reports at
// most one impression and one close. Teardown is final: a released instance
// accepts no further transitions and never starts a countdown.
type Lifecycle struct {
	ad       *entity.Advertisement
	reporter Reporter
	clock    Clock

	mu        sync.Mutex
	state     State
	reason    CloseReason
	remaining int64
	released  bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewLifecycle creates a lifecycle in NotReady for the given ad.
func NewLifecycle(ad *entity.Advertisement, reporter Reporter, opts ...Option) *Lifecycle {
	o := buildOptions(opts)
	return &Lifecycle{
		ad:       ad,
		reporter: reporter,
		clock:    o.clock,
		state:    NotReady,
	}
}

// Ad returns the advertisement this lifecycle tracks.
func (l *Lifecycle) Ad() *entity.Advertisement {
	return l.ad
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Reason returns the close reason, or zero while not closed.
func (l *Lifecycle) Reason() CloseReason {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reason
}

// Released reports whether Teardown has been called.
func (l *Lifecycle) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

// Remaining returns the seconds left on the auto-close countdown, or zero when
// no countdown is running.
func (l *Lifecycle) Remaining() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}

// MarkShown moves the instance to Showed and reports the impression. It
// returns false when the instance was already shown, closed or released.
// Auto-closing placements start their countdown here.
func (l *Lifecycle) MarkShown(ctx context.Context) bool {
	l.mu.Lock()
	if l.released || (l.state != NotReady && l.state != ReadyToShow) {
		l.mu.Unlock()
		return false
	}
	l.state = Showed
	if l.ad.Placement.AutoCloses() {
		l.startCountdownLocked()
	}
	l.mu.Unlock()

	metrics.RecordAdTransition(l.ad.Placement.String(), Showed.String(), "")
	l.report(ctx, newEvent(EventImpression, l.ad, 0, l.clock.Now()))
	return true
}

// Close moves the instance to Closed and reports the close. It returns false
// when the instance is already closed. Closing an instance that was never shown
// fails with ErrInvalidTransition unless the reason is LoadFailed. A released
// instance fails with ErrReleased.
func (l *Lifecycle) Close(ctx context.Context, reason CloseReason) (bool, error) {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return false, ErrReleased
	}
	switch l.state {
	case Closed:
		l.mu.Unlock()
		return false, nil
	case NotReady, ReadyToShow:
		if reason != LoadFailed {
			state := l.state
			l.mu.Unlock()
			return false, &TransitionError{From: state, Reason: reason}
		}
	}
	l.state = Closed
	l.reason = reason
	l.stopCountdownLocked()
	l.mu.Unlock()

	metrics.RecordAdTransition(l.ad.Placement.String(), Closed.String(), reason.String())
	l.report(ctx, newEvent(EventClose, l.ad, reason, l.clock.Now()))
	return true, nil
}

// Teardown releases the instance: it cancels the countdown, waits for it to
// exit and rejects later transitions. No tick is delivered after Teardown
// returns. The state is left unchanged.
func (l *Lifecycle) Teardown() {
	l.mu.Lock()
	l.released = true
	done := l.done
	l.stopCountdownLocked()
	l.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (l *Lifecycle) startCountdownLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	l.remaining = l.ad.EffectiveSkipTime()

	ticker := l.clock.NewTicker(countdownInterval)
	go l.countdown(ctx, ticker, l.done)
}

func (l *Lifecycle) stopCountdownLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.remaining = 0
}

func (l *Lifecycle) countdown(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			l.mu.Lock()
			if ctx.Err() != nil {
				l.mu.Unlock()
				return
			}
			l.remaining--
			expired := l.remaining <= 0
			l.mu.Unlock()

			if expired {
				if _, err := l.Close(context.Background(), Timer); err != nil && !errors.Is(err, ErrReleased) {
					slog.Warn("ad auto-close failed",
						slog.String("instance_id", l.ad.InstanceID),
						slog.Any("error", err))
				}
				return
			}
		}
	}
}

func (l *Lifecycle) report(ctx context.Context, ev Event) {
	if l.reporter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	err := l.reporter.Report(ctx, ev)
	metrics.RecordAdReport(string(ev.Type), err == nil)
	if err != nil {
		slog.Warn("ad report failed",
			slog.String("event", string(ev.Type)),
			slog.String("instance_id", ev.InstanceID),
			slog.Int64("ad_id", ev.AdID),
			slog.Any("error", err))
	}
}
