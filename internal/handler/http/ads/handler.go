// Package ads relays client-side ad lifecycle events to the tracked
// instances and serves aggregated ad statistics.
package ads

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"newsfeed/internal/handler/http/pathutil"
	"newsfeed/internal/handler/http/respond"
	"newsfeed/internal/usecase/ad"
)

// Sessions looks up tracked ad instances.
type Sessions interface {
	Get(instanceID string) (*ad.Lifecycle, bool)
}

// Register mounts the ad routes. stats may be nil, which leaves the stats
// route unregistered. guard wraps the stats route only; lifecycle calls come
// from anonymous clients. A nil guard mounts stats unprotected.
func Register(mux *http.ServeMux, sessions Sessions, stats ad.StatsStore, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /ads/{instance}/shown", ShownHandler{sessions})
	mux.Handle("POST /ads/{instance}/close", CloseHandler{sessions})
	mux.Handle("GET /ads/{instance}", StateHandler{sessions})
	if stats == nil {
		return
	}
	var h http.Handler = StatsHandler{Store: stats}
	if guard != nil {
		h = guard(h)
	}
	mux.Handle("GET /ads/{id}/stats", h)
}

func lookup(sessions Sessions, r *http.Request) (*ad.Lifecycle, error) {
	id := r.PathValue("instance")
	if !pathutil.ValidInstance(id) {
		return nil, respond.NewAppError(http.StatusBadRequest, "invalid instance id", nil)
	}
	lc, ok := sessions.Get(id)
	if !ok {
		return nil, respond.NewAppError(http.StatusNotFound, "unknown ad instance", ad.ErrUnknownInstance)
	}
	return lc, nil
}

// ShownHandler marks an instance displayed. Repeats are accepted and report
// nothing.
type ShownHandler struct{ Sessions Sessions }

// ServeHTTP marks an ad shown
// @Summary      Mark an ad instance shown
// @Description  Moves a Ready instance to Shown and starts its countdown. Repeats are accepted and report nothing.
// @Tags         ads
// @Param        instance path string true "Ad instance id"
// @Success      204 "Accepted"
// @Failure      400 {object} respond.ErrorBody "Invalid instance id"
// @Failure      404 {object} respond.ErrorBody "Unknown or released instance"
// @Router       /ads/{instance}/shown [post]
func (h ShownHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lc, err := lookup(h.Sessions, r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if !lc.MarkShown(r.Context()) && lc.Released() {
		respond.SafeError(w, http.StatusNotFound, respond.NewAppError(http.StatusNotFound, "unknown ad instance", ad.ErrReleased))
		return
	}
	respond.NoContent(w)
}

type closeRequest struct {
	Reason string `json:"reason" example:"close_button"`
}

// CloseHandler closes an instance with the reason in the body. An empty body
// closes with close_button.
type CloseHandler struct{ Sessions Sessions }

// ServeHTTP closes an ad
// @Summary      Close an ad instance
// @Description  Closes a shown instance with a reason: close_button, timer, click_through or load_failed. load_failed is accepted before the ad is shown.
// @Tags         ads
// @Accept       json
// @Param        instance path string       true  "Ad instance id"
// @Param        request  body closeRequest false "Close reason"
// @Success      204 "Closed, or already closed"
// @Failure      400 {object} respond.ErrorBody "Invalid instance id, body or reason"
// @Failure      404 {object} respond.ErrorBody "Unknown or released instance"
// @Failure      409 {object} respond.ErrorBody "Ad has not been shown"
// @Router       /ads/{instance}/close [post]
func (h CloseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lc, err := lookup(h.Sessions, r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	req := closeRequest{Reason: ad.CloseButton.String()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reason, err := ad.ParseCloseReason(req.Reason)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid close reason")
		return
	}

	if _, err := lc.Close(r.Context(), reason); err != nil {
		if errors.Is(err, ad.ErrReleased) {
			respond.SafeError(w, http.StatusNotFound, respond.NewAppError(http.StatusNotFound, "unknown ad instance", err))
			return
		}
		if errors.Is(err, ad.ErrInvalidTransition) {
			respond.SafeError(w, http.StatusConflict, respond.NewAppError(http.StatusConflict, "ad has not been shown", err))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.NoContent(w)
}

// StateDTO is the body of GET /ads/{instance}.
type StateDTO struct {
	InstanceID string         `json:"instance_id"`
	AdID       int64          `json:"ad_id"`
	State      ad.State       `json:"state"`
	Reason     ad.CloseReason `json:"reason,omitempty"`
	Remaining  int64          `json:"remaining_seconds,omitempty"`
}

// StateHandler reports the state of an instance.
type StateHandler struct{ Sessions Sessions }

// ServeHTTP reports ad state
// @Summary      Get ad instance state
// @Tags         ads
// @Produce      json
// @Param        instance path string true "Ad instance id"
// @Success      200 {object} StateDTO
// @Failure      400 {object} respond.ErrorBody "Invalid instance id"
// @Failure      404 {object} respond.ErrorBody "Unknown instance"
// @Router       /ads/{instance} [get]
func (h StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lc, err := lookup(h.Sessions, r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, StateDTO{
		InstanceID: lc.Ad().InstanceID,
		AdID:       lc.Ad().AdID,
		State:      lc.State(),
		Reason:     lc.Reason(),
		Remaining:  lc.Remaining(),
	})
}

// StatsHandler serves GET /ads/{id}/stats. since is an RFC 3339 time or a
// duration back from now; the default window is 24h.
type StatsHandler struct {
	Store ad.StatsStore
	Now   func() time.Time
}

// ServeHTTP serves ad statistics
// @Summary      Get ad statistics
// @Description  Impressions and closes by reason for one ad since a point in time.
// @Tags         ads
// @Security     BearerAuth
// @Produce      json
// @Param        id    path  int    true  "Ad id" minimum(1)
// @Param        since query string false "RFC 3339 time or duration back from now" default(24h)
// @Success      200 {object} ad.Stats
// @Failure      400 {object} respond.ErrorBody "Invalid ad id or since"
// @Failure      401 {object} respond.ErrorBody "Authentication required"
// @Failure      403 {object} respond.ErrorBody "Forbidden"
// @Failure      500 {object} respond.ErrorBody "Server error"
// @Router       /ads/{id}/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid ad id")
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	since, err := parseSince(r.URL.Query().Get("since"), now())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid since")
		return
	}

	stats, err := h.Store.Stats(r.Context(), adID, since)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

func parseSince(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.Add(-24 * time.Hour), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return time.Time{}, errors.New("since must be RFC 3339 or a positive duration")
	}
	return now.Add(-d), nil
}
