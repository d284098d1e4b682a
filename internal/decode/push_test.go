package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
)

func TestDecodePush(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]string
		wantID  string
		wantErr error
	}{
		{
			name:   "news_item key",
			data:   map[string]string{"news_item": `{"id":1,"title":"Breaking"}`},
			wantID: "1",
		},
		{
			name:   "payload key",
			data:   map[string]string{"payload": `{"id":"2","title":"Breaking"}`},
			wantID: "2",
		},
		{
			name:   "news_item preferred",
			data:   map[string]string{"payload": `{"id":"2","title":"B"}`, "news_item": `{"id":"1","title":"A"}`},
			wantID: "1",
		},
		{
			name:   "empty news_item falls through",
			data:   map[string]string{"news_item": "", "payload": `{"id":"2","title":"B"}`},
			wantID: "2",
		},
		{
			name:    "no payload",
			data:    map[string]string{"title": "hello"},
			wantErr: decode.ErrPushPayloadMissing,
		},
		{
			name:    "corrupted",
			data:    map[string]string{"news_item": `{"id":`},
			wantErr: decode.ErrPayloadCorrupted,
		},
		{
			name:    "missing title",
			data:    map[string]string{"news_item": `{"id":"3"}`},
			wantErr: entity.ErrRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := decode.DecodePush(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, e.ID)
			assert.Equal(t, entity.KindArticle, e.Kind)
		})
	}
}
