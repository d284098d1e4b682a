package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsfeed/pkg/config"
)

// WorkerConfig holds the settings of the contract monitor worker.
type WorkerConfig struct {
	// CronSchedule is the five-field cron expression of the contract check.
	CronSchedule string

	// Timezone is the IANA zone both schedules run in.
	Timezone string

	// Parallelism bounds how many sources are checked at once (1-32).
	Parallelism int

	// CheckTimeout bounds a single source check (1s-10m).
	CheckTimeout time.Duration

	// RunTimeout bounds one whole contract run (1m-1h).
	RunTimeout time.Duration

	// PurgeSchedule is the cron expression of the ad event purge.
	PurgeSchedule string

	// PurgeRetention is how long ad events are kept (24h-8760h).
	PurgeRetention time.Duration

	// SourcesFile is the YAML catalogue of sources to check.
	SourcesFile string

	// HealthPort serves /health and /health/ready (1024-65535).
	HealthPort int
}

// DefaultConfig returns the worker defaults: a check every 30 minutes and a
// nightly purge keeping 30 days of ad events.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "*/30 * * * *",
		Timezone:       "UTC",
		Parallelism:    4,
		CheckTimeout:   30 * time.Second,
		RunTimeout:     10 * time.Minute,
		PurgeSchedule:  "15 3 * * *",
		PurgeRetention: 30 * 24 * time.Hour,
		SourcesFile:    "config/sources.yaml",
		HealthPort:     9091,
	}
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validParallelism(c.Parallelism); err != nil {
		errs = append(errs, fmt.Errorf("parallelism: %w", err))
	}
	if err := validCheckTimeout(c.CheckTimeout); err != nil {
		errs = append(errs, fmt.Errorf("check timeout: %w", err))
	}
	if err := validRunTimeout(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateCronSchedule(c.PurgeSchedule); err != nil {
		errs = append(errs, fmt.Errorf("purge schedule: %w", err))
	}
	if err := validRetention(c.PurgeRetention); err != nil {
		errs = append(errs, fmt.Errorf("purge retention: %w", err))
	}
	if c.SourcesFile == "" {
		errs = append(errs, errors.New("sources file: empty"))
	}
	if err := validPort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

func validParallelism(v int) error { return config.ValidateIntRange(v, 1, 32) }
func validPort(v int) error        { return config.ValidateIntRange(v, 1024, 65535) }

func validCheckTimeout(d time.Duration) error {
	return config.ValidateDurationRange(d, time.Second, 10*time.Minute)
}

func validRunTimeout(d time.Duration) error {
	return config.ValidateDurationRange(d, time.Minute, time.Hour)
}

func validRetention(d time.Duration) error {
	return config.ValidateDurationRange(d, 24*time.Hour, 365*24*time.Hour)
}

// LoadConfigFromEnv reads the worker configuration. Invalid values never fail
// the load: each falls back to its default with a warning and a fallback metric.
//
// Environment variables:
//   - CRON_SCHEDULE, WORKER_TIMEZONE
//   - WORKER_PARALLELISM, CHECK_TIMEOUT, RUN_TIMEOUT
//   - PURGE_SCHEDULE, AD_EVENT_RETENTION
//   - SOURCES_FILE, WORKER_HEALTH_PORT
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	note := func(field string, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	s := config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = s.Value
	note("cron_schedule", s.Warning, s.FallbackApplied)

	s = config.LoadString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = s.Value
	note("timezone", s.Warning, s.FallbackApplied)

	i := config.LoadInt("WORKER_PARALLELISM", cfg.Parallelism, validParallelism)
	cfg.Parallelism = i.Value
	note("parallelism", i.Warning, i.FallbackApplied)

	d := config.LoadDuration("CHECK_TIMEOUT", cfg.CheckTimeout, validCheckTimeout)
	cfg.CheckTimeout = d.Value
	note("check_timeout", d.Warning, d.FallbackApplied)

	d = config.LoadDuration("RUN_TIMEOUT", cfg.RunTimeout, validRunTimeout)
	cfg.RunTimeout = d.Value
	note("run_timeout", d.Warning, d.FallbackApplied)

	s = config.LoadString("PURGE_SCHEDULE", cfg.PurgeSchedule, config.ValidateCronSchedule)
	cfg.PurgeSchedule = s.Value
	note("purge_schedule", s.Warning, s.FallbackApplied)

	d = config.LoadDuration("AD_EVENT_RETENTION", cfg.PurgeRetention, validRetention)
	cfg.PurgeRetention = d.Value
	note("purge_retention", d.Warning, d.FallbackApplied)

	cfg.SourcesFile = config.GetEnvString("SOURCES_FILE", cfg.SourcesFile)

	i = config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, validPort)
	cfg.HealthPort = i.Value
	note("health_port", i.Warning, i.FallbackApplied)

	metrics.RecordLoad(fallback)
	return &cfg
}
