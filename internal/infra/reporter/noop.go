package reporter

import (
	"context"
	"log/slog"

	"newsfeed/internal/usecase/ad"
)

// Noop drops every event. Used when no collector is configured.
type Noop struct{}

// Report does nothing.
func (Noop) Report(context.Context, ad.Event) error { return nil }

// Log writes every event to slog at info level. feedcat uses it to show what
// a client would report.
type Log struct {
	Logger *slog.Logger
}

// Report logs ev.
func (l Log) Report(ctx context.Context, ev ad.Event) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{
		slog.String("event", string(ev.Type)),
		slog.String("instance_id", ev.InstanceID),
		slog.Int64("ad_id", ev.AdID),
		slog.Int64("banner_id", ev.BannerID),
		slog.String("placement", ev.Placement.String()),
	}
	if ev.Type == ad.EventClose {
		attrs = append(attrs, slog.String("reason", ev.Reason.String()))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "ad event", attrs...)
	return nil
}
