// Package http holds the API server's middleware and health check handlers. Feature
// handlers live in the feed and ads subpackages.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"newsfeed/internal/handler/http/respond"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Breaker is a circuit breaker whose state is reported.
type Breaker interface {
	IsOpen() bool
}

// SessionCounter reports how many ad instances are tracked.
type SessionCounter interface {
	Len() int
}

// HealthHandler reports database, breaker and ad session state. A failed
// database ping makes the service unhealthy (503); an open breaker only
// degrades it.
type HealthHandler struct {
	DB       *sql.DB // optional
	Breakers map[string]Breaker
	Sessions SessionCounter // optional
	Version  string
	Now      func() time.Time
}

// ServeHTTP reports component health
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse "Healthy or degraded"
// @Failure      503 {object} HealthResponse "Unhealthy"
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	}
	for name, b := range h.Breakers {
		checks["breaker:"+name] = checkBreaker(b)
	}
	if h.Sessions != nil {
		checks["ad_sessions"] = CheckStatus{
			Status:  StatusHealthy,
			Details: map[string]any{"active": h.Sessions.Len()},
		}
	}

	status := StatusHealthy
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
	}
	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80 {
			return CheckStatus{Status: StatusDegraded, Message: "connection pool utilization above 80%", Details: details}
		}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func checkBreaker(b Breaker) CheckStatus {
	if b.IsOpen() {
		return CheckStatus{Status: StatusDegraded, Message: "circuit open"}
	}
	return CheckStatus{Status: StatusHealthy}
}

// ReadyHandler answers readiness checks: 503 while the database is
// unreachable.
type ReadyHandler struct {
	DB *sql.DB // optional
}

// ServeHTTP reports readiness
// @Summary      Readiness check
// @Tags         health
// @Produce      plain
// @Success      200 {string} string "ready"
// @Failure      503 {object} respond.ErrorBody "Database not ready"
// @Router       /ready [get]
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			respond.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness checks.
type LiveHandler struct{}

// ServeHTTP reports liveness
// @Summary      Liveness check
// @Tags         health
// @Produce      plain
// @Success      200 {string} string "alive"
// @Router       /live [get]
func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("alive"))
}
