package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts standard five-field expressions and descriptors such as
// @hourly or @every 5m.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCronSchedule parses a five-field cron expression.
func ParseCronSchedule(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, fmt.Errorf("invalid cron schedule: empty")
	}
	s, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return s, nil
}

// ValidateCronSchedule reports whether expr parses as a cron schedule.
func ValidateCronSchedule(expr string) error {
	_, err := ParseCronSchedule(expr)
	return err
}

// ValidateTimezone checks that name is a loadable IANA zone.
func ValidateTimezone(name string) error {
	if name == "" {
		return fmt.Errorf("invalid timezone: empty")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange checks min <= d <= max.
func ValidateDurationRange(d, min, max time.Duration) error {
	return checkRange(d, min, max)
}

// ValidateIntRange checks min <= v <= max.
func ValidateIntRange(v, min, max int) error {
	return checkRange(v, min, max)
}

func checkRange[T int | time.Duration](v, min, max T) error {
	switch {
	case min > max:
		return fmt.Errorf("invalid range: min %v is greater than max %v", min, max)
	case v < min:
		return fmt.Errorf("%v is below minimum %v", v, min)
	case v > max:
		return fmt.Errorf("%v exceeds maximum %v", v, max)
	}
	return nil
}
