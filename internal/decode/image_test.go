package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
)

func TestDecodeImage(t *testing.T) {
	img, err := decode.DecodeImage(gjson.Parse(`{"id":31,"thumb":"t.jpg","sd":"sd.jpg","width":"640","height":480,"author":"AP"}`))
	require.NoError(t, err)
	assert.Equal(t, entity.ImageRef{ID: "31", Author: "AP", Thumb: "t.jpg", SD: "sd.jpg", Width: 640, Height: 480}, img)
}

func TestDecodeImage_ThumbRequired(t *testing.T) {
	_, err := decode.DecodeImage(gjson.Parse(`{"id":31,"hd":"hd.jpg"}`))
	assert.ErrorIs(t, err, entity.ErrRequiredField)
}

func TestDecodeArticle_MalformedNestedImageDegrades(t *testing.T) {
	a, err := decode.DecodeArticle(gjson.Parse(`{
		"id":"1","title":"T",
		"image":{"hd":"no-thumb.jpg"},
		"head_item":"https://cdn.example.com/head.jpg",
		"category":"sport",
		"story_net":{"id":3,"title":"Elections"},
		"tags":[{"id":1,"title":"a"},"b",7]
	}`))
	require.NoError(t, err)

	assert.Nil(t, a.Image)
	require.NotNil(t, a.HeadItem)
	assert.Equal(t, "https://cdn.example.com/head.jpg", a.HeadItem.Thumb)
	assert.Nil(t, a.Category)
	require.NotNil(t, a.StoryNet)
	assert.Equal(t, "3", a.StoryNet.ID)
	assert.Equal(t, []entity.Tag{{ID: "1", Title: "a"}, {ID: "b", Title: "b"}}, a.Tags)
}

func TestDecodeArticle_Fields(t *testing.T) {
	a, err := decode.DecodeArticle(gjson.Parse(`{
		"id":"100","title":"Headline","title2":"Sub","timestamp":"1700000000","date_updated":1700000100,
		"cnt_view":"1500","shared_cnt":"abc","cnt_comm":12,"comm":"1","online":1,"closed":"0",
		"category":{"id":"4","title":"World","slug":"world"},"category_id":"4","k":"key","display_type":"2"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Sub", a.Subtitle)
	assert.Equal(t, int64(1700000000), a.Timestamp)
	assert.Equal(t, int64(1700000100), a.DateUpdated)
	assert.Equal(t, int64(1500), a.ViewCount)
	assert.Equal(t, int64(0), a.SharedCount)
	assert.Equal(t, int64(12), a.CommentCount)
	assert.True(t, a.Commentable)
	assert.True(t, a.Online)
	assert.False(t, a.Closed)
	assert.Equal(t, &entity.Category{ID: 4, Title: "World", Slug: "world"}, a.Category)
	assert.Equal(t, int64(4), a.CategoryID)
	assert.Equal(t, int64(2), a.DisplayType)
}

func TestDecodeEmbed_RequiresTarget(t *testing.T) {
	_, err := decode.DecodeEmbed(gjson.Parse(`{"type":"twitter"}`))
	assert.ErrorIs(t, err, entity.ErrRequiredField)

	e, err := decode.DecodeEmbed(gjson.Parse(`{"type":"twitter","html":"<blockquote/>","thumb":{"thumb":"x.jpg"}}`))
	require.NoError(t, err)
	require.NotNil(t, e.Thumb)
	assert.Equal(t, "x.jpg", e.Thumb.Thumb)
}
