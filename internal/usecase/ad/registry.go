package ad

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

type session struct {
	lc      *Lifecycle
	tracked time.Time
}

// Registry holds the lifecycles of the ad instances handed out to clients,
// keyed by instance id.
type Registry struct {
	reporter Reporter
	opts     []Option
	clock    Clock

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewRegistry creates an empty registry whose lifecycles report to reporter.
func NewRegistry(reporter Reporter, opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{
		reporter: reporter,
		opts:     opts,
		clock:    o.clock,
		sessions: make(map[string]*session),
	}
}

// Track starts a lifecycle for ad. Tracking an instance id twice returns the
// existing lifecycle.
func (r *Registry) Track(ad *entity.Advertisement) *Lifecycle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[ad.InstanceID]; ok {
		return s.lc
	}
	lc := NewLifecycle(ad, r.reporter, r.opts...)
	r.sessions[ad.InstanceID] = &session{lc: lc, tracked: r.clock.Now()}
	metrics.SetAdSessions(len(r.sessions))
	return lc
}

// Get returns the lifecycle of an instance.
func (r *Registry) Get(instanceID string) (*Lifecycle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[instanceID]
	if !ok {
		return nil, false
	}
	return s.lc, true
}

// Len returns the number of tracked instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Release tears the instance down and forgets it.
func (r *Registry) Release(instanceID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[instanceID]
	if ok {
		delete(r.sessions, instanceID)
		metrics.SetAdSessions(len(r.sessions))
	}
	r.mu.Unlock()

	if ok {
		s.lc.Teardown()
	}
	return ok
}

// Sweep releases closed instances and instances tracked longer than maxAge.
// It returns the number released.
func (r *Registry) Sweep(maxAge time.Duration) int {
	cutoff := r.clock.Now().Add(-maxAge)

	r.mu.Lock()
	var stale []*Lifecycle
	for id, s := range r.sessions {
		if s.lc.State() == Closed || s.tracked.Before(cutoff) {
			stale = append(stale, s.lc)
			delete(r.sessions, id)
		}
	}
	metrics.SetAdSessions(len(r.sessions))
	r.mu.Unlock()

	for _, lc := range stale {
		lc.Teardown()
	}
	return len(stale)
}

// Shutdown tears down every tracked instance.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	metrics.SetAdSessions(0)
	r.mu.Unlock()

	for _, s := range sessions {
		s.lc.Teardown()
	}
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("ad session sweeper started",
		slog.Duration("interval", interval),
		slog.Duration("max_age", maxAge))

	for {
		select {
		case <-ctx.Done():
			slog.Info("ad session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(maxAge); n > 0 {
				slog.Debug("ad sessions swept", slog.Int("released", n))
			}
		}
	}
}
