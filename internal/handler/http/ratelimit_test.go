package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func requestFrom(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/feed", nil)
	r.RemoteAddr = ip + ":1234"
	return r
}

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(1, 2, false)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.0.2.1"))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// other clients have their own bucket
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("192.0.2.2"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// a token refills after a second
	now = now.Add(time.Second)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("192.0.2.1"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_RejectionHeaders(t *testing.T) {
	rl := NewRateLimiter(0.5, 1, false)
	h := rl.Limit(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("192.0.2.1"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10, false)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("a")
	now = now.Add(5 * time.Minute)
	rl.allow("b")
	assert.Equal(t, 2, rl.Len())

	assert.Equal(t, 1, rl.Cleanup(time.Minute))
	assert.Equal(t, 1, rl.Len())
}

func TestStartRateLimitCleanup_StopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(10, 10, false)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartRateLimitCleanup(ctx, rl, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()

	rl.allow("a")
	assert.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestLoadRateLimitConfigFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_RPS", "5")
	t.Setenv("RATELIMIT_BURST", "nope")
	t.Setenv("RATELIMIT_TRUST_PROXY", "true")
	t.Setenv("RATELIMIT_CLEANUP_INTERVAL", "1m")

	cfg := LoadRateLimitConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5.0, cfg.RequestsPerSec)
	assert.Equal(t, 40, cfg.Burst, "invalid value falls back to default")
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout)
}
