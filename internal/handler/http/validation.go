package http

import (
	"mime"
	"net/http"

	"newsfeed/internal/handler/http/respond"
)

// Input limits applied by InputValidation.
const (
	MaxPathLength  = 2048
	MaxQueryLength = 4096
	MaxBodyBytes   = 64 << 10
)

// InputValidation rejects oversized paths and queries, caps bodies at
// MaxBodyBytes and requires JSON for request bodies.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > MaxPathLength || len(r.URL.RawQuery) > MaxQueryLength {
				respond.Error(w, http.StatusRequestURITooLong, "URI too long")
				return
			}

			if r.ContentLength > 0 {
				mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mt != "application/json" {
					respond.Error(w, http.StatusUnsupportedMediaType, "content type must be application/json")
					return
				}
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
