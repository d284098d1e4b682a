package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "newsfeed/docs" // swagger docs
	"newsfeed/internal/config"
	"newsfeed/internal/domain/entity"
	hhttp "newsfeed/internal/handler/http"
	hads "newsfeed/internal/handler/http/ads"
	hauth "newsfeed/internal/handler/http/auth"
	hfeed "newsfeed/internal/handler/http/feed"
	"newsfeed/internal/handler/http/requestid"
	pgRepo "newsfeed/internal/infra/adapter/persistence/postgres"
	"newsfeed/internal/infra/backend"
	"newsfeed/internal/infra/db"
	"newsfeed/internal/infra/fetcher"
	"newsfeed/internal/infra/prefs"
	"newsfeed/internal/infra/reporter"
	"newsfeed/internal/infra/rssfeed"
	"newsfeed/internal/observability/logging"
	"newsfeed/internal/observability/tracing"
	"newsfeed/internal/usecase/ad"
	feedUC "newsfeed/internal/usecase/feed"
	pkgconfig "newsfeed/pkg/config"
)

// @title           Newsfeed API
// @version         1.0
// @description     Decoded news feed pages with interleaved ads, ad lifecycle events and operator statistics.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Operator JWT from POST /auth/token, sent as "Bearer {token}".
func main() {
	logger := logging.NewLogger(logging.Options{})
	slog.SetDefault(logger)

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		logger.Error("invalid api configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Setup(pkgconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to stop tracer provider", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger, cfg.DatabaseDSN)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	version := pkgconfig.GetEnvString("VERSION", "dev")
	components := setupServer(logger, cfg, database, version)

	runServer(logger, cfg, components, version)
}

// initDatabase connects and migrates the ad event store. Without a DSN the
// service runs without persistence and returns nil.
func initDatabase(logger *slog.Logger, dsn string) *sql.DB {
	if dsn == "" {
		logger.Info("DATABASE_URL not set, ad events are not persisted")
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

// ServerComponents holds what the server runs and what must be stopped with it.
type ServerComponents struct {
	Handler  http.Handler
	Limiter  *hhttp.RateLimiter
	Limits   hhttp.RateLimitConfig
	Registry *ad.Registry
}

// setupServer builds the feed service, the ad registry and the routes.
func setupServer(logger *slog.Logger, cfg *config.APIConfig, database *sql.DB, version string) *ServerComponents {
	client, err := backend.NewClient(backend.Config{
		BaseURL:     cfg.Backend.BaseURL,
		Timeout:     cfg.Backend.Timeout,
		MaxBodySize: cfg.Backend.MaxBodySize,
		PageParam:   cfg.Backend.PageParam,
	}, nil)
	if err != nil {
		logger.Error("failed to create backend client", slog.Any("error", err))
		os.Exit(1)
	}

	breakers := map[string]hhttp.Breaker{"backend": client}

	// Every ad event goes to each configured sink.
	var sinks []ad.Reporter
	var stats ad.StatsStore
	if cfg.Reporter.Endpoint != "" {
		collector := reporter.NewHTTP(reporter.Config{
			Endpoint:          cfg.Reporter.Endpoint,
			APIKey:            cfg.Reporter.APIKey,
			Timeout:           cfg.Reporter.Timeout,
			RequestsPerSecond: cfg.Reporter.RequestsPerSecond,
			Burst:             cfg.Reporter.Burst,
		})
		sinks = append(sinks, collector)
		breakers["ad_collector"] = collector
		logger.Info("ad event collector enabled", slog.String("endpoint", cfg.Reporter.Endpoint))
	}
	if database != nil {
		repo := pgRepo.NewAdEventRepo(database)
		sinks = append(sinks, repo)
		stats = repo
	}
	var sink ad.Reporter = reporter.Noop{}
	if len(sinks) > 0 {
		sink = ad.Fanout(sinks...)
	} else {
		logger.Warn("no ad event sink configured, impressions are dropped")
	}
	registry := ad.NewRegistry(sink)

	contentCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("content fetching disabled due to configuration error", slog.Any("error", err))
		contentCfg = fetcher.DefaultConfig()
	}
	var content feedUC.ContentFetcher
	if contentCfg.Enabled {
		content = fetcher.NewReadabilityFetcher(contentCfg)
		logger.Info("content fetching enabled",
			slog.Int("threshold", contentCfg.Threshold),
			slog.Int("parallelism", contentCfg.Parallelism))
	}

	rss := rssfeed.NewReader(&http.Client{Timeout: cfg.Backend.Timeout}, "")
	svc := feedUC.NewService(client, rss, content, registry, feedUC.ContentFetchConfig{
		Parallelism: contentCfg.Parallelism,
		Threshold:   contentCfg.Threshold,
	})

	var sources map[string]entity.Source
	if cfg.SourcesFile != "" {
		catalogue, err := config.LoadCatalogue(cfg.SourcesFile)
		if err != nil {
			logger.Error("failed to load source catalogue", slog.Any("error", err))
			os.Exit(1)
		}
		sources = catalogue.ByName()
		logger.Info("source catalogue loaded", slog.Int("sources", len(sources)))
	}

	mux := http.NewServeMux()
	hfeed.Register(mux, hfeed.Handler{
		Svc:     svc,
		Sources: sources,
		Prefs:   prefs.NewMemoryStore(nil),
	})

	// Stats are served only behind operator auth.
	authCfg, err := hauth.LoadConfigFromEnv()
	switch {
	case errors.Is(err, hauth.ErrDisabled):
		logger.Warn("JWT_SECRET not set, ad stats endpoint disabled")
		hads.Register(mux, registry, nil, nil)
	case err != nil:
		logger.Error("invalid auth configuration", slog.Any("error", err))
		os.Exit(1)
	default:
		mux.Handle("POST /auth/token", hauth.TokenHandler(authCfg))
		hads.Register(mux, registry, stats, hauth.Require(authCfg))
		logger.Info("operator auth enabled", slog.Duration("token_ttl", authCfg.TokenTTL))
	}

	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:       database,
		Breakers: breakers,
		Sessions: registry,
		Version:  version,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	limits := hhttp.LoadRateLimitConfigFromEnv()
	var limiter *hhttp.RateLimiter
	middlewares := []func(http.Handler) http.Handler{
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
	}
	cors, err := hhttp.LoadCORSConfigFromEnv()
	if err != nil {
		logger.Error("invalid CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if len(cors.AllowedOrigins) > 0 {
		middlewares = append(middlewares, hhttp.CORS(cors, logger))
		logger.Info("CORS enabled", slog.Any("origins", cors.AllowedOrigins))
	}
	if limits.Enabled {
		limiter = hhttp.NewRateLimiter(limits.RequestsPerSec, limits.Burst, limits.TrustProxy)
		middlewares = append(middlewares, limiter.Limit)
		logger.Info("rate limiting enabled",
			slog.Float64("rps", limits.RequestsPerSec),
			slog.Int("burst", limits.Burst),
			slog.Bool("trust_proxy", limits.TrustProxy))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}
	middlewares = append(middlewares,
		hhttp.InputValidation(),
		hhttp.Timeout(cfg.Server.RequestTimeout),
	)

	return &ServerComponents{
		Handler:  hhttp.Chain(mux, middlewares...),
		Limiter:  limiter,
		Limits:   limits,
		Registry: registry,
	}
}

// runServer serves until SIGINT or SIGTERM, then drains requests and tears
// down the ad sessions.
func runServer(logger *slog.Logger, cfg *config.APIConfig, c *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Registry.StartSweeper(ctx, cfg.Ads.SweepInterval, cfg.Ads.MaxAge)
	if c.Limiter != nil {
		go hhttp.StartRateLimitCleanup(ctx, c.Limiter, c.Limits.CleanupInterval, c.Limits.IdleTimeout)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           c.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Background loops stop after the last request has drained.
	cancel()
	c.Registry.Shutdown()
	logger.Info("server stopped")
}
