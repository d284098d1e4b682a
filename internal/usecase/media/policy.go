// Package media picks which variant of an image reference to render.
package media

import (
	"context"
	"log/slog"

	"newsfeed/internal/domain/entity"
)

// Preference keys read by the policy.
const (
	PrefHDImages      = "hd_images"
	PrefShowSensitive = "show_sensitive"
)

// PreferenceStore is the local key-value preference store.
type PreferenceStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key string, value string) error
}

// Preferences are the user settings that affect image selection.
type Preferences struct {
	HDImages      bool
	ShowSensitive bool
}

// Load reads Preferences from the store. A read failure leaves that setting
// at its default and is logged.
func Load(ctx context.Context, store PreferenceStore) Preferences {
	var p Preferences
	if store == nil {
		return p
	}
	var err error
	if p.HDImages, err = store.GetBool(ctx, PrefHDImages); err != nil {
		slog.Warn("failed to read preference", slog.String("key", PrefHDImages), slog.Any("error", err))
	}
	if p.ShowSensitive, err = store.GetBool(ctx, PrefShowSensitive); err != nil {
		slog.Warn("failed to read preference", slog.String("key", PrefShowSensitive), slog.Any("error", err))
	}
	return p
}

// Select returns the URL to render for ref.
//
// A sensitive variant wins unless the user opted into sensitive content. Then
// HD is used when forced or preferred, falling back to SD and the thumbnail;
// otherwise SD, falling back to the thumbnail.
func Select(ref *entity.ImageRef, prefs Preferences, forceHD bool) string {
	if ref == nil {
		return ""
	}
	if ref.Sensitive != "" && !prefs.ShowSensitive {
		return ref.Sensitive
	}
	if forceHD || prefs.HDImages {
		return firstNonEmpty(ref.HD, ref.SD, ref.Thumb)
	}
	return firstNonEmpty(ref.SD, ref.Thumb)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
