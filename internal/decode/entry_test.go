package decode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
)

func TestDecodeEntry_Dispatch(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		wantKind    entity.EntryKind
		wantPayload func(t *testing.T, e entity.FeedEntry)
	}{
		{
			name:     "ad",
			json:     `{"id":"1","title":"Ad","special_type":"ad","banner_path":"b.png"}`,
			wantKind: entity.KindAdvertisement,
			wantPayload: func(t *testing.T, e entity.FeedEntry) {
				require.NotNil(t, e.Advertisement)
				assert.Equal(t, entity.MediaPNG, e.Advertisement.Media)
			},
		},
		{
			name:     "poll",
			json:     `{"id":"2","title":"Poll","special_type":"poll","total_votes":0,"params":[]}`,
			wantKind: entity.KindPoll,
			wantPayload: func(t *testing.T, e entity.FeedEntry) {
				require.NotNil(t, e.Poll)
				assert.Equal(t, "2", e.Poll.ID)
			},
		},
		{
			name:     "news item",
			json:     `{"id":"3","title":"News","special_type":"news_item"}`,
			wantKind: entity.KindArticle,
		},
		{
			name:     "absent discriminator",
			json:     `{"id":"4","title":"News"}`,
			wantKind: entity.KindArticle,
		},
		{
			name:     "unknown discriminator",
			json:     `{"id":"5","title":"News","special_type":"video_story"}`,
			wantKind: entity.KindArticle,
		},
		{
			name:     "numeric discriminator",
			json:     `{"id":"6","title":"News","special_type":7}`,
			wantKind: entity.KindArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := decode.DecodeEntry(gjson.Parse(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, e.Kind)
			require.NoError(t, e.Validate())
			if tt.wantKind == entity.KindArticle {
				require.NotNil(t, e.Article)
				assert.Equal(t, e.ID, e.Article.ID)
			}
			if tt.wantPayload != nil {
				tt.wantPayload(t, e)
			}
		})
	}
}

func TestDecodeEntry_NumericID(t *testing.T) {
	e, err := decode.DecodeEntry(gjson.Parse(`{"id":123,"title":"T"}`))
	require.NoError(t, err)
	assert.Equal(t, "123", e.ID)
}

func TestDecodeEntry_MissingIDSynthesized(t *testing.T) {
	e, err := decode.DecodeEntry(gjson.Parse(`{"title":"T","special_type":"poll","total_votes":1,"params":[]}`))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, e.ID, e.Poll.ID)
}

func TestDecodeEntry_MissingTitle(t *testing.T) {
	for _, raw := range []string{
		`{"id":"1"}`,
		`{"id":"1","special_type":"ad"}`,
		`{"id":"1","special_type":"poll","total_votes":1,"params":[]}`,
	} {
		_, err := decode.DecodeEntry(gjson.Parse(raw))
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, entity.ErrRequiredField), raw)

		var fe *entity.FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "title", fe.Field)
	}
}

func TestDecodeEntry_NotAnObject(t *testing.T) {
	_, err := decode.DecodeEntry(gjson.Parse(`"hello"`))
	assert.ErrorIs(t, err, entity.ErrRequiredField)
}

func TestDecodeEntry_BannerScenario(t *testing.T) {
	raw := `{"id":"8","title":"T","special_type":"ad","banner_id":"17","width":"468","height":"120","aspect_ratio":3.9,
		"ad_id":"5","target":"fullscreen","type":"image/gif","open_type":"1","skip_time":"10","ad_ids":["1",2,"x"]}`

	e, err := decode.DecodeEntry(gjson.Parse(raw))
	require.NoError(t, err)
	require.Equal(t, entity.KindAdvertisement, e.Kind)

	ad := e.Advertisement
	assert.Equal(t, int64(17), ad.BannerID)
	assert.Equal(t, int64(468), ad.Width)
	assert.Equal(t, int64(120), ad.Height)
	assert.InDelta(t, 3.9, ad.AspectRatio, 1e-9)
	assert.Equal(t, int64(5), ad.AdID)
	assert.Equal(t, entity.PlacementFullscreen, ad.Placement)
	assert.Equal(t, entity.MediaGIF, ad.Media)
	assert.Equal(t, entity.OpenExternal, ad.OpenType)
	require.NotNil(t, ad.SkipTime)
	assert.Equal(t, int64(10), ad.EffectiveSkipTime())
	assert.Equal(t, []int64{1, 2, 0}, ad.AdIDs)
	assert.NotEmpty(t, ad.InstanceID)
}

func TestDecodeAd_Defaults(t *testing.T) {
	ad, err := decode.DecodeAd(gjson.Parse(`{"target":"billboard","open_type":"external","banner_path":"/b/x.PNG"}`))
	require.NoError(t, err)

	assert.Equal(t, entity.PlacementInline, ad.Placement)
	assert.Equal(t, entity.OpenInApp, ad.OpenType)
	assert.Equal(t, entity.MediaPNG, ad.Media)
	assert.Nil(t, ad.SkipTime)
	assert.Equal(t, entity.DefaultSkipTime, ad.EffectiveSkipTime())
}

func TestDecodeAd_PlacementIndex(t *testing.T) {
	ad, err := decode.DecodeAd(gjson.Parse(`{"target":7}`))
	require.NoError(t, err)
	assert.Equal(t, entity.PlacementSplash, ad.Placement)

	ad, err = decode.DecodeAd(gjson.Parse(`{"target":"42"}`))
	require.NoError(t, err)
	assert.Equal(t, entity.PlacementInline, ad.Placement)
}

func TestDecodeAd_FreshInstancePerDecode(t *testing.T) {
	obj := gjson.Parse(`{"ad_id":1}`)
	a, err := decode.DecodeAd(obj)
	require.NoError(t, err)
	b, err := decode.DecodeAd(obj)
	require.NoError(t, err)

	assert.True(t, a.ShallowEqual(b))
	assert.False(t, a.SameInstance(b))
}
