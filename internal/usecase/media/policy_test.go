package media_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/infra/prefs"
	"newsfeed/internal/usecase/media"
)

func TestSelect(t *testing.T) {
	full := &entity.ImageRef{Thumb: "thumb", SD: "sd", HD: "hd"}
	sensitive := &entity.ImageRef{Thumb: "thumb", SD: "sd", HD: "hd", Sensitive: "blurred"}

	tests := []struct {
		name    string
		ref     *entity.ImageRef
		prefs   media.Preferences
		forceHD bool
		want    string
	}{
		{name: "default uses sd", ref: full, want: "sd"},
		{name: "hd preference", ref: full, prefs: media.Preferences{HDImages: true}, want: "hd"},
		{name: "force hd", ref: full, forceHD: true, want: "hd"},
		{name: "hd falls back to sd", ref: &entity.ImageRef{Thumb: "thumb", SD: "sd"}, forceHD: true, want: "sd"},
		{name: "hd falls back to thumb", ref: &entity.ImageRef{Thumb: "thumb"}, forceHD: true, want: "thumb"},
		{name: "sd falls back to thumb", ref: &entity.ImageRef{Thumb: "thumb", HD: "hd"}, want: "thumb"},
		{name: "sensitive wins", ref: sensitive, forceHD: true, want: "blurred"},
		{name: "sensitive opted in", ref: sensitive, prefs: media.Preferences{ShowSensitive: true}, want: "sd"},
		{name: "nil ref", ref: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, media.Select(tt.ref, tt.prefs, tt.forceHD))
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore(map[string]string{media.PrefHDImages: "true"})

	p := media.Load(ctx, store)
	assert.True(t, p.HDImages)
	assert.False(t, p.ShowSensitive)

	require.NoError(t, store.SetBool(ctx, media.PrefShowSensitive, true))
	require.NoError(t, store.SetString(ctx, media.PrefHDImages, "not-a-bool"))

	p = media.Load(ctx, store)
	assert.False(t, p.HDImages, "unparseable value falls back to default")
	assert.True(t, p.ShowSensitive)
}

func TestLoad_NilStore(t *testing.T) {
	assert.Equal(t, media.Preferences{}, media.Load(context.Background(), nil))
}
