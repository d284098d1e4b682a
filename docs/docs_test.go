package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]struct {
			Security []map[string][]string `json:"security"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "Newsfeed API", doc.Info.Title)
	for _, p := range []string{"/feed", "/ads/{instance}", "/ads/{instance}/shown", "/ads/{instance}/close", "/ads/{id}/stats", "/auth/token", "/health"} {
		assert.Contains(t, doc.Paths, p)
	}
	assert.NotEmpty(t, doc.Paths["/ads/{id}/stats"]["get"].Security)
	assert.Empty(t, doc.Paths["/ads/{instance}/close"]["post"].Security)
}
