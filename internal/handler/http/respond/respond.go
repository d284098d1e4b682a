// Package respond writes JSON responses and maps errors to client-safe
// messages.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// JSON writes v as JSON with status code. A nil v writes only the header.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are gone; log only
		slog.Error("encode json response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// NoContent writes 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error" example:"unknown ad instance"`
}

// Error writes {"error": msg} with status code.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}

// AppError pairs a client-facing message with the internal cause.
type AppError struct {
	Code    int
	UserMsg string
	Err     error
}

// NewAppError returns an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.UserMsg + ": " + e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error { return e.Err }

// SafeError writes err without leaking internals. An *AppError anywhere in the
// chain supplies status and message. Anything else becomes code with a
// generic message for 5xx, or the status text otherwise; the cause is logged
// with secrets masked.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logAt(appErr.Code, "request failed",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		Error(w, appErr.Code, appErr.UserMsg)
		return
	}

	logAt(code, "request failed",
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	if code >= http.StatusInternalServerError {
		Error(w, code, "internal server error")
		return
	}
	Error(w, code, http.StatusText(code))
}

func logAt(code int, msg string, attrs ...any) {
	if code >= http.StatusInternalServerError {
		slog.Error(msg, attrs...)
		return
	}
	slog.Debug(msg, attrs...)
}
