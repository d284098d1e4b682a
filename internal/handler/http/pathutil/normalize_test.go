package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/feed", "/feed"},
		{"/feed?path=news&page=2", "/feed"},
		{"/feed/", "/feed"},
		{"/ads/0b9f6a52-8d0e-4c43-9d1f-1f3c2f9b7a10/shown", "/ads/:instance/shown"},
		{"/ads/0b9f6a52-8d0e-4c43-9d1f-1f3c2f9b7a10/close", "/ads/:instance/close"},
		{"/ads/0b9f6a52-8d0e-4c43-9d1f-1f3c2f9b7a10", "/ads/:instance"},
		{"/ads/42/stats", "/ads/:id/stats"},
		{"/health", "/health"},
		{"/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.path))
		})
	}
}
