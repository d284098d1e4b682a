package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/observability/slo"
)

func TestSourceHealthHandler(t *testing.T) {
	tracker := slo.NewTracker(4)
	mux := metricsMux(tracker)

	get := func() (int, SourceHealthResponse) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/sources", nil))
		var body SourceHealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := get()
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Healthy)
	assert.Empty(t, body.Sources)

	tracker.Observe("worker-top", true, 20, 0)
	code, body = get()
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, body.Sources, 1)
	assert.Equal(t, "worker-top", body.Sources[0].Source)

	tracker.Observe("worker-latest", false, 0, 0)
	code, body = get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, body.Healthy)
	assert.Len(t, body.Sources, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	metricsMux(slo.NewTracker(1)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
