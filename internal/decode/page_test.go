package decode_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

func TestDecodePage_PollWithoutTotalVotesIsSkipped(t *testing.T) {
	body := []byte(`[
		{"id":"1","title":"First","timestamp":"1700000000"},
		{"id":"2","title":"Broken poll","special_type":"poll","params":[{"item_id":1,"title":"Yes","num":3}]},
		{"id":"3","title":"Banner","special_type":"ad","banner_id":"17"},
		{"id":"4","title":"Good poll","special_type":"poll","total_votes":"3","params":[]}
	]`)

	skippedCounter := metrics.DecodeEntriesSkippedTotal.WithLabelValues("poll", "total_votes")
	before := testutil.ToFloat64(skippedCounter)

	page, err := decode.DecodePage(body)
	require.NoError(t, err)

	require.Len(t, page.Entries, 3)
	assert.Equal(t, "1", page.Entries[0].ID)
	assert.Equal(t, "3", page.Entries[1].ID)
	assert.Equal(t, "4", page.Entries[2].ID)
	assert.Equal(t, int64(1700000000), page.Entries[0].Article.Timestamp)

	require.Len(t, page.Skipped, 1)
	assert.Equal(t, 1, page.Skipped[0].Index)
	assert.Equal(t, "2", page.Skipped[0].ID)
	assert.Equal(t, entity.KindPoll, page.Skipped[0].Kind)
	assert.Equal(t, "total_votes", page.Skipped[0].Field)
	assert.Equal(t, before+1, testutil.ToFloat64(skippedCounter))
}

func TestDecodePage_PollWithoutParamsIsSkipped(t *testing.T) {
	page, err := decode.DecodePage([]byte(`[{"id":"2","title":"P","special_type":"poll","total_votes":3}]`))
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	require.Len(t, page.Skipped, 1)
	assert.Equal(t, "params", page.Skipped[0].Field)
}

func TestDecodePage_Envelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "array", body: `[{"title":"a"},{"title":"b"}]`, want: 2},
		{name: "items", body: `{"items":[{"title":"a"}]}`, want: 1},
		{name: "list", body: `{"total":1,"list":[{"title":"a"}]}`, want: 1},
		{name: "data", body: `{"data":[{"title":"a"},{"title":"b"},{"title":"c"}]}`, want: 3},
		{name: "news", body: `{"news":[]}`, want: 0},
		{name: "nested data", body: `{"data":{"items":[{"title":"a"}]}}`, want: 1},
		{name: "items wins over news", body: `{"news":[{"title":"a"},{"title":"b"}],"items":[{"title":"c"}]}`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decode.DecodePage([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, page.Entries, tt.want)
			assert.Empty(t, page.Skipped)
		})
	}
}

func TestDecodePage_Corrupted(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "truncated", body: `[{"id":"1","title":"a"`},
		{name: "not json", body: `<html>502 Bad Gateway</html>`},
		{name: "empty", body: ``},
		{name: "scalar", body: `42`},
		{name: "object without list", body: `{"error":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decode.DecodePage([]byte(tt.body))
			assert.Nil(t, page)
			assert.True(t, errors.Is(err, decode.ErrPayloadCorrupted), "err = %v", err)
		})
	}
}

func TestDecodePage_EntriesAreNeverNil(t *testing.T) {
	page, err := decode.DecodePage([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, page.Entries)
}

func TestDecodePage_NonObjectEntrySkipped(t *testing.T) {
	page, err := decode.DecodePage([]byte(`[1,{"title":"ok"},null]`))
	require.NoError(t, err)
	assert.Len(t, page.Entries, 1)
	assert.Len(t, page.Skipped, 2)
}
