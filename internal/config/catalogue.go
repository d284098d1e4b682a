package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"newsfeed/internal/domain/entity"
)

// Catalogue is the YAML list of feed sources:
//
//	sources:
//	  - name: top
//	    path: /v2/news/top
//	    active: true
//	  - name: tech-rss
//	    path: https://example.com/tech.rss
//	    source_type: rss
//	    active: true
type Catalogue struct {
	Sources []entity.Source `yaml:"sources"`
}

// LoadCatalogue reads and validates a catalogue file.
func LoadCatalogue(path string) (*Catalogue, error) {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return ParseCatalogue(data)
}

// ParseCatalogue decodes a catalogue. Unknown keys are rejected so that a
// misspelled field does not silently disable a source.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var c Catalogue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalogue validation failed: %w", err)
	}
	return &c, nil
}

// Validate checks every source and rejects duplicate names. It normalizes
// source types in place.
func (c *Catalogue) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("no sources")
	}
	var errs []error
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		s := &c.Sources[i]
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d]: %w", i, err))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
	}
	return errors.Join(errs...)
}

// ListActive returns the active sources sorted by name.
func (c *Catalogue) ListActive(context.Context) ([]entity.Source, error) {
	out := make([]entity.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ByName indexes the active sources by name.
func (c *Catalogue) ByName() map[string]entity.Source {
	out := make(map[string]entity.Source, len(c.Sources))
	for _, s := range c.Sources {
		if s.Active {
			out[s.Name] = s
		}
	}
	return out
}
