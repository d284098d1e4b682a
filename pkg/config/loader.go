package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is a value loaded with validation. When the variable was set but
// invalid, Value holds the default and Warning explains why.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// LoadWithFallback reads key, parses it and validates it. Unset keys yield
// the default without a warning.
func LoadWithFallback[T any](key string, defaultValue T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(key)
	if raw == "" {
		return Result[T]{Value: defaultValue}
	}
	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v; using default %v", key, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a validated string.
func LoadString(key, defaultValue string, validate func(string) error) Result[string] {
	return LoadWithFallback(key, defaultValue, func(s string) (string, error) { return s, nil }, validate)
}

// LoadInt loads a validated integer.
func LoadInt(key string, defaultValue int, validate func(int) error) Result[int] {
	return LoadWithFallback(key, defaultValue, strconv.Atoi, validate)
}

// LoadDuration loads a validated duration.
func LoadDuration(key string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return LoadWithFallback(key, defaultValue, time.ParseDuration, validate)
}
