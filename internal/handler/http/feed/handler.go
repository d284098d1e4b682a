package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sony/gobreaker"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/handler/http/respond"
	"newsfeed/internal/observability/logging"
	"newsfeed/internal/resilience/retry"
	feedUC "newsfeed/internal/usecase/feed"
	"newsfeed/internal/usecase/media"
)

// Service loads one page of a source.
type Service interface {
	Page(ctx context.Context, src entity.Source, page int) (*decode.Page, error)
}

// Handler serves GET /feed.
//
// Query parameters: source (a catalogue name) or path (a backend path), page
// (1-based, default 1) and hd=1 to force HD images.
type Handler struct {
	Svc     Service
	Sources map[string]entity.Source
	Prefs   media.PreferenceStore // optional
}

// Register mounts the feed routes on mux.
func Register(mux *http.ServeMux, h Handler) {
	mux.Handle("GET /feed", h)
}

// ServeHTTP serves one feed page
// @Summary      Get a feed page
// @Description  Loads one page of a source and returns its articles with ads interleaved at their slots.
// @Tags         feed
// @Produce      json
// @Param        source query string false "Catalogue source name"
// @Param        path   query string false "Backend path, used when source is empty"
// @Param        page   query int    false "Page number (1-based)" default(1) minimum(1)
// @Param        hd     query string false "1 forces HD images" Enums(1)
// @Success      200 {object} PageDTO
// @Failure      400 {object} respond.ErrorBody "Invalid source or page"
// @Failure      404 {object} respond.ErrorBody "Unknown source"
// @Failure      502 {object} respond.ErrorBody "Backend error"
// @Failure      503 {object} respond.ErrorBody "Backend unavailable"
// @Router       /feed [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	src, err := h.resolveSource(q.Get("source"), q.Get("path"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			respond.Error(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
	}
	forceHD := q.Get("hd") == "1"

	p, err := h.Svc.Page(r.Context(), src, page)
	if err != nil {
		logging.WithRequestID(r.Context(), slog.Default()).Warn("feed page failed",
			slog.String("source", src.Name),
			slog.Int("page", page),
			slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusBadGateway, classify(err))
		return
	}

	prefs := media.Load(r.Context(), h.Prefs)
	respond.JSON(w, http.StatusOK, toPageDTO(src.Name, page, p, prefs, forceHD))
}

func (h Handler) resolveSource(name, path string) (entity.Source, error) {
	switch {
	case name != "":
		src, ok := h.Sources[name]
		if !ok || !src.Active {
			return entity.Source{}, respond.NewAppError(http.StatusNotFound, "unknown source", nil)
		}
		return src, nil
	case path != "":
		src := entity.Source{Name: path, Path: path, SourceType: entity.SourceTypeAPI, Active: true}
		if err := src.Validate(); err != nil {
			return entity.Source{}, respond.NewAppError(http.StatusBadRequest, "invalid path", err)
		}
		return src, nil
	default:
		return entity.Source{}, respond.NewAppError(http.StatusBadRequest, "source or path is required", nil)
	}
}

// classify maps a page load failure to the client-facing error.
func classify(err error) error {
	var httpErr *retry.HTTPError
	switch {
	case errors.Is(err, decode.ErrPayloadCorrupted):
		return respond.NewAppError(http.StatusBadGateway, "invalid feed payload", err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return respond.NewAppError(http.StatusServiceUnavailable, "backend unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		return respond.NewAppError(http.StatusGatewayTimeout, "backend timeout", err)
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		return respond.NewAppError(http.StatusNotFound, "feed not found", err)
	case errors.Is(err, feedUC.ErrUnknownSourceType):
		return respond.NewAppError(http.StatusBadRequest, "unsupported source type", err)
	case errors.Is(err, feedUC.ErrSourceUnavailable):
		return respond.NewAppError(http.StatusServiceUnavailable, "source type not configured", err)
	}
	return respond.NewAppError(http.StatusBadGateway, "backend error", err)
}
