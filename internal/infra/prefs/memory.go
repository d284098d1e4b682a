// Package prefs provides preference store implementations.
package prefs

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is an in-process preference store. Values are kept as strings;
// booleans are stored with strconv.FormatBool.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a store seeded with initial values.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

// GetString returns the value for key, or "" when unset.
func (s *MemoryStore) GetString(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// SetString stores value under key.
func (s *MemoryStore) SetString(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// GetBool returns the boolean stored under key. Unset keys are false; values
// that do not parse as a boolean are an error.
func (s *MemoryStore) GetBool(ctx context.Context, key string) (bool, error) {
	v, _ := s.GetString(ctx, key)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// SetBool stores a boolean under key.
func (s *MemoryStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.SetString(ctx, key, strconv.FormatBool(value))
}
