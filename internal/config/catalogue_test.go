package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/domain/entity"
)

const sampleCatalogue = `
sources:
  - name: top
    path: /v2/news/top
    active: true
  - name: tech-rss
    path: https://example.com/tech.rss
    source_type: rss
    active: true
  - name: archive
    path: /v2/news/archive
    active: false
`

func TestParseCatalogue(t *testing.T) {
	c, err := ParseCatalogue([]byte(sampleCatalogue))
	require.NoError(t, err)
	require.Len(t, c.Sources, 3)

	assert.Equal(t, entity.SourceTypeAPI, c.Sources[0].SourceType)
	assert.Equal(t, entity.SourceTypeRSS, c.Sources[1].SourceType)

	active, err := c.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "tech-rss", active[0].Name)
	assert.Equal(t, "top", active[1].Name)

	byName := c.ByName()
	assert.Contains(t, byName, "top")
	assert.NotContains(t, byName, "archive")
}

func TestParseCatalogue_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "sources: []", "no sources"},
		{"not yaml", "sources: [", "parse catalogue"},
		{"unknown key", "sources:\n  - name: a\n    pth: /a\n", "parse catalogue"},
		{"relative api path", "sources:\n  - name: a\n    path: a\n", "must start with /"},
		{"bad type", "sources:\n  - name: a\n    path: /a\n    source_type: ftp\n", "invalid source_type"},
		{"duplicate", "sources:\n  - name: a\n    path: /a\n  - name: a\n    path: /b\n", "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogue([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalogue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalogue), 0o600))

	c, err := LoadCatalogue(path)
	require.NoError(t, err)
	assert.Len(t, c.Sources, 3)

	_, err = LoadCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read catalogue")
}
