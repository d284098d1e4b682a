package ad

import (
	"context"
	"errors"
	"time"

	"newsfeed/internal/domain/entity"
)

// EventType is the kind of outbound ad report.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClose      EventType = "close"
)

// Event is one outbound ad report.
type Event struct {
	Type       EventType        `json:"type"`
	InstanceID string           `json:"instance_id"`
	AdID       int64            `json:"ad_id"`
	BannerID   int64            `json:"banner_id"`
	Placement  entity.Placement `json:"placement"`
	Reason     CloseReason      `json:"reason,omitempty"`
	At         time.Time        `json:"at"`
}

// Reporter delivers ad events to an analytics sink.
type Reporter interface {
	Report(ctx context.Context, ev Event) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, ev Event) error

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Fanout delivers every event to all reporters. Every reporter is tried; the
// errors are joined.
func Fanout(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, ev Event) error {
		var errs []error
		for _, r := range reporters {
			if err := r.Report(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

func newEvent(typ EventType, ad *entity.Advertisement, reason CloseReason, at time.Time) Event {
	return Event{
		Type:       typ,
		InstanceID: ad.InstanceID,
		AdID:       ad.AdID,
		BannerID:   ad.BannerID,
		Placement:  ad.Placement,
		Reason:     reason,
		At:         at,
	}
}
