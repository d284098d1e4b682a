package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(w http.ResponseWriter)
		wantStatus int
		wantBytes  int
		wantSent   bool
	}{
		{
			name:       "nothing written",
			handler:    func(http.ResponseWriter) {},
			wantStatus: http.StatusOK,
		},
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte("hello"))
			},
			wantStatus: http.StatusOK,
			wantBytes:  5,
			wantSent:   true,
		},
		{
			name: "explicit status then body",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"error":"x"}`))
				_, _ = w.Write([]byte("\n"))
			},
			wantStatus: http.StatusBadGateway,
			wantBytes:  14,
			wantSent:   true,
		},
		{
			name: "second WriteHeader ignored",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusNoContent)
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusNoContent,
			wantSent:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			w := Wrap(rec)
			tt.handler(w)

			assert.Equal(t, tt.wantStatus, w.StatusCode())
			assert.Equal(t, tt.wantBytes, w.BytesWritten())
			assert.Equal(t, tt.wantSent, w.Written())
			if tt.wantSent {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	w.Flush()

	assert.True(t, rec.Flushed)
	assert.Equal(t, http.StatusOK, w.StatusCode())
}

func TestUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	require.Same(t, rec, w.Unwrap())

	// ResponseController finds the flusher through Unwrap.
	require.NoError(t, http.NewResponseController(w).Flush())
}
