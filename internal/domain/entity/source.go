package entity

import (
	"fmt"
	"strings"
)

// Source types understood by the feed service.
const (
	SourceTypeAPI = "API"
	SourceTypeRSS = "RSS"
)

// Source is one feed endpoint the service or the contract monitor reads from.
// API sources are paths on the news backend; RSS sources are absolute feed URLs.
type Source struct {
	Name       string `yaml:"name" json:"name"`
	Path       string `yaml:"path" json:"path"`
	SourceType string `yaml:"source_type" json:"source_type"`
	Active     bool   `yaml:"active" json:"active"`
}

// Validate checks the source definition.
func (s *Source) Validate() error {
	// Catalogues written before RSS support omit the type.
	if s.SourceType == "" {
		s.SourceType = SourceTypeAPI
	}
	s.SourceType = strings.ToUpper(s.SourceType)

	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if s.Path == "" {
		return &ValidationError{Field: "path", Message: "path is required"}
	}

	switch s.SourceType {
	case SourceTypeAPI:
		if !strings.HasPrefix(s.Path, "/") {
			return &ValidationError{Field: "path", Message: "API path must start with /"}
		}
	case SourceTypeRSS:
		if err := ValidateFeedURL(s.Path); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
	default:
		return fmt.Errorf("invalid source_type: %s (must be API or RSS)", s.SourceType)
	}
	return nil
}
