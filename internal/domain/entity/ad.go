package entity

import (
	"fmt"
	"path"
	"strings"
)

// Placement is the slot an advertisement is rendered into.
type Placement int

// The eight placements known to the client. PlacementInline is the neutral
// default used when the backend sends a value that cannot be mapped.
const (
	PlacementInline Placement = iota
	PlacementFeedTop
	PlacementArticleTop
	PlacementArticleBottom
	PlacementArticleInline
	PlacementSticky
	PlacementFullscreen
	PlacementSplash
)

var placementNames = []string{
	"inline",
	"feed_top",
	"article_top",
	"article_bottom",
	"article_inline",
	"sticky",
	"fullscreen",
	"splash",
}

// PlacementCount is the number of defined placements.
const PlacementCount = 8

// String returns the wire name of the placement.
func (p Placement) String() string {
	if p >= 0 && int(p) < len(placementNames) {
		return placementNames[p]
	}
	return fmt.Sprintf("placement(%d)", int(p))
}

// MarshalText renders the placement by name.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePlacement maps a wire name or numeric index to a placement.
// The second result is false when the value was not recognized.
func ParsePlacement(name string) (Placement, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range placementNames {
		if n == name {
			return Placement(i), true
		}
	}
	return PlacementInline, false
}

// PlacementFromIndex maps a numeric slot to a placement.
func PlacementFromIndex(i int64) (Placement, bool) {
	if i < 0 || i >= PlacementCount {
		return PlacementInline, false
	}
	return Placement(i), true
}

// AutoCloses reports whether ads in this placement close themselves after the skip timeout.
func (p Placement) AutoCloses() bool {
	return p == PlacementFullscreen || p == PlacementSplash
}

// MediaKind is the banner asset format.
type MediaKind string

const (
	MediaJPEG MediaKind = "jpeg"
	MediaPNG  MediaKind = "png"
	MediaGIF  MediaKind = "gif"
)

// ParseMediaKind accepts a type name or MIME type. Unknown values fall back to
// the banner path extension and finally to JPEG.
func ParseMediaKind(typ, bannerPath string) MediaKind {
	if k, ok := mediaKindOf(typ); ok {
		return k
	}
	if k, ok := mediaKindOf(strings.TrimPrefix(path.Ext(bannerPath), ".")); ok {
		return k
	}
	return MediaJPEG
}

func mediaKindOf(s string) (MediaKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "image/")
	switch s {
	case "jpeg", "jpg":
		return MediaJPEG, true
	case "png":
		return MediaPNG, true
	case "gif":
		return MediaGIF, true
	}
	return "", false
}

// OpenType tells the client where a click-through opens.
type OpenType int

const (
	OpenInApp OpenType = iota
	OpenExternal
	OpenDeepLink
)

// OpenTypeFromInt maps the backend code to an OpenType, defaulting to OpenInApp.
func OpenTypeFromInt(v int64) OpenType {
	switch OpenType(v) {
	case OpenExternal, OpenDeepLink:
		return OpenType(v)
	}
	return OpenInApp
}

// DefaultSkipTime is the auto-close timeout, in seconds, when an ad carries none.
const DefaultSkipTime int64 = 5

// Advertisement is the payload of an ad entry.
type Advertisement struct {
	AdID                int64     `json:"ad_id"`
	Placement           Placement `json:"target"`
	URL                 string    `json:"url,omitempty"`
	BannerID            int64     `json:"banner_id"`
	BannerPath          string    `json:"banner_path"`
	LandscapeBannerPath string    `json:"landscape_banner_path,omitempty"`
	BgColor             string    `json:"bg_color,omitempty"`
	Width               int64     `json:"width"`
	Height              int64     `json:"height"`
	AspectRatio         float64   `json:"aspect_ratio"`
	CloseIcon           string    `json:"close_icon,omitempty"`
	ShowedAdTime        int64     `json:"showed_ad_time"`
	AdIDs               []int64   `json:"ad_ids,omitempty"`
	Size                string    `json:"size,omitempty"`
	Media               MediaKind `json:"type"`
	ScaleType           string    `json:"scale_type,omitempty"`
	OpenType            OpenType  `json:"open_type"`
	SkipTime            *int64    `json:"skip_time,omitempty"`

	// InstanceID distinguishes repeated renders of the same backend ad within a
	// session. It is generated locally and never sent back to the backend.
	InstanceID string `json:"-"`
}

// EffectiveSkipTime returns SkipTime or DefaultSkipTime when absent or not positive.
func (a *Advertisement) EffectiveSkipTime() int64 {
	if a.SkipTime == nil || *a.SkipTime <= 0 {
		return DefaultSkipTime
	}
	return *a.SkipTime
}
