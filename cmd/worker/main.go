package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"newsfeed/internal/config"
	"newsfeed/internal/handler/http/respond"
	pgRepo "newsfeed/internal/infra/adapter/persistence/postgres"
	"newsfeed/internal/infra/backend"
	"newsfeed/internal/infra/db"
	"newsfeed/internal/infra/notifier"
	"newsfeed/internal/infra/rssfeed"
	workerPkg "newsfeed/internal/infra/worker"
	"newsfeed/internal/observability/logging"
	"newsfeed/internal/observability/slo"
	"newsfeed/internal/usecase/contract"
	feedUC "newsfeed/internal/usecase/feed"
	pkgconfig "newsfeed/pkg/config"
)

func main() {
	logger := logging.NewLogger(logging.Options{})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewWorkerMetrics()
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("purge_schedule", cfg.PurgeSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("parallelism", cfg.Parallelism),
		slog.Duration("check_timeout", cfg.CheckTimeout),
		slog.Int("health_port", cfg.HealthPort))

	catalogue, err := config.LoadCatalogue(cfg.SourcesFile)
	if err != nil {
		logger.Error("failed to load source catalogue", slog.String("path", cfg.SourcesFile), slog.Any("error", err))
		os.Exit(1)
	}

	svc := initFeedService(logger)
	tracker := slo.NewTracker(pkgconfig.GetEnvInt("SLO_WINDOW", slo.DefaultWindow))
	monitor := &contract.Monitor{
		Sources:     catalogue,
		Pages:       svc,
		Tracker:     tracker,
		Parallelism: cfg.Parallelism,
		Timeout:     cfg.CheckTimeout,
	}

	alerter := &contract.Alerter{Notifier: initNotifier(logger), Tracker: tracker}

	var purger *pgRepo.AdEventRepo
	if database := initDatabase(logger); database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
		purger = pgRepo.NewAdEventRepo(database)
	}

	startMetricsServer(ctx, logger, tracker)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	scheduler := newScheduler(logger, cfg)
	addJob(logger, scheduler, cfg.CronSchedule, func() {
		runContractJob(ctx, logger, monitor, alerter, cfg, metrics)
	})
	if purger != nil {
		addJob(logger, scheduler, cfg.PurgeSchedule, func() {
			runPurgeJob(ctx, logger, purger, cfg, metrics)
		})
	}
	scheduler.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.Int("sources", len(catalogue.Sources)),
		slog.Bool("purge", purger != nil))

	if pkgconfig.GetEnvBool("RUN_ON_START", true) {
		go runContractJob(ctx, logger, monitor, alerter, cfg, metrics)
	}

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// Wait for running jobs; their contexts are already cancelled.
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
}

// initFeedService builds the page loader the contract job reads through.
// Content enrichment and ad tracking stay off: the job checks the wire
// contract only.
func initFeedService(logger *slog.Logger) *feedUC.Service {
	client, err := backend.NewClient(backend.Config{
		BaseURL:     pkgconfig.GetEnvString("BACKEND_BASE_URL", ""),
		Timeout:     pkgconfig.GetEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		MaxBodySize: int64(pkgconfig.GetEnvInt("BACKEND_MAX_BODY_SIZE", 8<<20)),
		PageParam:   pkgconfig.GetEnvString("BACKEND_PAGE_PARAM", "page"),
	}, nil)
	if err != nil {
		logger.Error("failed to create backend client", slog.Any("error", err))
		os.Exit(1)
	}
	rss := rssfeed.NewReader(&http.Client{Timeout: 30 * time.Second}, "")
	return feedUC.NewService(client, rss, nil, nil, feedUC.ContentFetchConfig{})
}

// initDatabase opens the ad event store for the purge job. It returns nil
// when DATABASE_URL is unset.
func initDatabase(logger *slog.Logger) *sql.DB {
	dsn := pkgconfig.GetEnvString("DATABASE_URL", "")
	if dsn == "" {
		logger.Info("DATABASE_URL not set, ad event purge disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Open(ctx, dsn, db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// cronLogger routes scheduler logs through slog.
type cronLogger struct {
	*slog.Logger
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.Logger.Error(msg, append(keysAndValues, "error", err)...)
}

func newScheduler(logger *slog.Logger, cfg *workerPkg.WorkerConfig) *cron.Cron {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	cl := cronLogger{logger}
	return cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

func addJob(logger *slog.Logger, c *cron.Cron, schedule string, fn func()) {
	if _, err := c.AddFunc(schedule, fn); err != nil {
		logger.Error("failed to add cron job", slog.String("schedule", schedule), slog.Any("error", err))
		os.Exit(1)
	}
}

// initNotifier enables the Slack and Discord webhooks that are configured.
func initNotifier(logger *slog.Logger) contract.Notifier {
	var notifiers []contract.Notifier
	if cfg := notifier.SlackConfigFromEnv(logger); cfg.Enabled {
		notifiers = append(notifiers, notifier.NewSlack(cfg))
		logger.Info("Slack alerts enabled")
	}
	if cfg := notifier.DiscordConfigFromEnv(logger); cfg.Enabled {
		notifiers = append(notifiers, notifier.NewDiscord(cfg))
		logger.Info("Discord alerts enabled")
	}
	return notifier.Multi(notifiers...)
}

// runContractJob checks every active source once, records the report and
// alerts on sources that started or stopped breaching.
func runContractJob(ctx context.Context, logger *slog.Logger, m *contract.Monitor, alerter *contract.Alerter, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	start := time.Now()
	logger.Info("contract check started")

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	report, err := m.Run(runCtx)
	metrics.RecordJobRun("contract", time.Since(start).Seconds(), err)
	if err != nil {
		logger.Error("contract check failed", slog.String("error", respond.SanitizeError(err)))
		return
	}
	metrics.RecordReport(report)
	alerter.Process(ctx, report)
}

// runPurgeJob deletes ad events older than the retention period.
func runPurgeJob(ctx context.Context, logger *slog.Logger, repo *pgRepo.AdEventRepo, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	cutoff := start.Add(-cfg.PurgeRetention)
	n, err := repo.Purge(runCtx, cutoff)
	metrics.RecordJobRun("purge", time.Since(start).Seconds(), err)
	if err != nil {
		logger.Error("ad event purge failed", slog.String("error", respond.SanitizeError(err)))
		return
	}
	metrics.RecordPurged(n)
	logger.Info("ad event purge completed",
		slog.Int64("deleted", n),
		slog.Time("before", cutoff))
}
