// Package pathutil maps request paths to low-cardinality metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a path shape to its metric label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

const segment = `[^/]+`

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/ads/` + segment + `/shown$`), Template: "/ads/:instance/shown"},
	{Pattern: regexp.MustCompile(`^/ads/` + segment + `/close$`), Template: "/ads/:instance/close"},
	{Pattern: regexp.MustCompile(`^/ads/` + segment + `$`), Template: "/ads/:instance"},
	{Pattern: regexp.MustCompile(`^/ads/\d+/stats$`), Template: "/ads/:id/stats"},
}

// NormalizePath strips the query and a trailing slash and replaces ids with
// placeholders. Paths outside the known shapes are returned as is.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
