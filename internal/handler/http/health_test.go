package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBreaker bool

func (b fakeBreaker) IsOpen() bool { return bool(b) }

type fakeSessions int

func (s fakeSessions) Len() int { return int(s) }

func serveHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthHandler(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("healthy without database", func(t *testing.T) {
		code, body := serveHealth(t, &HealthHandler{
			Breakers: map[string]Breaker{"news-backend": fakeBreaker(false)},
			Sessions: fakeSessions(3),
			Version:  "1.2.3",
			Now:      func() time.Time { return fixed },
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, StatusHealthy, body.Status)
		assert.Equal(t, "1.2.3", body.Version)
		assert.Equal(t, "2026-03-01T12:00:00Z", body.Timestamp)
		assert.EqualValues(t, 3, body.Checks["ad_sessions"].Details["active"])
		assert.NotContains(t, body.Checks, "database")
	})

	t.Run("open breaker degrades", func(t *testing.T) {
		code, body := serveHealth(t, &HealthHandler{
			Breakers: map[string]Breaker{"news-backend": fakeBreaker(true)},
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, StatusDegraded, body.Status)
		assert.Equal(t, "circuit open", body.Checks["breaker:news-backend"].Message)
	})

	t.Run("database ping", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		db.SetMaxOpenConns(10)

		mock.ExpectPing()
		code, body := serveHealth(t, &HealthHandler{DB: db})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, StatusHealthy, body.Checks["database"].Status)
		assert.EqualValues(t, 10, body.Checks["database"].Details["max_open_connections"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("dial postgres://feed:secret@db:5432 refused"))
		code, body := serveHealth(t, &HealthHandler{DB: db, Breakers: map[string]Breaker{"x": fakeBreaker(true)}})
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, StatusUnhealthy, body.Status)
		assert.NotContains(t, body.Checks["database"].Message, "secret")
	})
}

func TestReadyHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	rec = httptest.NewRecorder()
	(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
