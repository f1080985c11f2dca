package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sifan077/shortlink/config"
	"github.com/sifan077/shortlink/internal/app/codegen"
	appmodel "github.com/sifan077/shortlink/internal/app/model"
	apprepository "github.com/sifan077/shortlink/internal/app/repository"
	appserver "github.com/sifan077/shortlink/internal/app/server"
	appservice "github.com/sifan077/shortlink/internal/app/service"
	"github.com/sifan077/shortlink/internal/http/auth"
	inthttp "github.com/sifan077/shortlink/internal/http/handler"
	"github.com/sifan077/shortlink/internal/infra/logger"
	infraNATS "github.com/sifan077/shortlink/internal/infra/nats"
	infraPostgres "github.com/sifan077/shortlink/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/shortlink/internal/infra/prometheus"
	infraRedis "github.com/sifan077/shortlink/internal/infra/redis"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.MustInit(logger.Config{
		Development: !cfg.App.IsProduction(),
		Level:       cfg.App.LogLevel,
		Name:        "shortlink",
		Fields:      map[string]string{"env": cfg.App.Env},
	})
	defer func() { _ = logger.Sync() }()

	log.Info("Configuration loaded successfully",
		zap.String("base_url", cfg.App.BaseURL),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.Bool("nats_enabled", cfg.NATS.Enabled),
		zap.Int("code_length", cfg.Links.CodeLength),
		zap.Int("max_attempts", cfg.Links.MaxAttempts),
	)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open GORM connection: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("access underlying SQL DB: %w", err)
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.Link{}); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect to Postgres: %w", err)
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to Redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	store := apprepository.NewLinkRepository(gormDB)
	links := apprepository.NewCachedLinkRepository(store, redisClient, cfg.Redis.CacheTTL, log.Named("cache"))

	filter := appservice.NewCodeFilter(cfg.Links.FilterCapacity, cfg.Links.FilterFalsePositiveRate)
	warmed, err := filter.Warm(ctx, store)
	if err != nil {
		// The filter only saves round trips; start without it.
		log.Warn("Failed to warm code filter", zap.Error(err))
	} else {
		log.Info("Code filter warmed", zap.Int("codes", warmed))
	}

	var events appservice.EventPublisher
	if cfg.NATS.Enabled {
		natsConn, js, err := infraNATS.Connect(cfg.NATS)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer natsConn.Drain()

		if err := appservice.EnsureLinkStream(js); err != nil {
			return fmt.Errorf("ensure link stream: %w", err)
		}
		events = appservice.NewLinkPublisher(js)

		filterSync := appservice.NewCodeFilterSync(js, filter, log.Named("filter-sync"))
		if err := filterSync.Start(); err != nil {
			return fmt.Errorf("start code filter sync: %w", err)
		}
		defer func() { _ = filterSync.Stop() }()
		log.Info("Connected to NATS successfully")
	} else {
		log.Info("NATS disabled; link events will not be published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := infraPrometheus.NewLinkMetrics(registry)

	promServer := infraPrometheus.NewServer(cfg.Prometheus, registry)
	go func() {
		log.Info("Starting Prometheus metrics server", zap.Int("port", cfg.Prometheus.Port))
		if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
		}
	}()
	defer func() {
		if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Failed to close Prometheus server", zap.Error(err))
		}
	}()

	generator, err := codegen.NewRandomGenerator(cfg.Links.CodeLength)
	if err != nil {
		return fmt.Errorf("build code generator: %w", err)
	}

	identity, err := newIdentitySupplier(cfg, log)
	if err != nil {
		return err
	}

	linkService := appservice.NewLinkService(appservice.LinkServiceDeps{
		Links:       links,
		Generator:   generator,
		Filter:      filter,
		Events:      events,
		Metrics:     metrics,
		Logger:      log.Named("links"),
		BaseURL:     cfg.App.BaseURL,
		MaxAttempts: cfg.Links.MaxAttempts,
	})

	server := appserver.New(appserver.Dependencies{
		Logger:      log.Named("http"),
		LinkService: linkService,
		Identity:    identity,
		Checks: map[string]inthttp.Check{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		BaseURL:    cfg.App.BaseURL,
		CookieName: cfg.Auth.CookieName,
		SignInURL:  cfg.Auth.SignInURL,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server exited: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newIdentitySupplier refuses to start without a secret outside development.
func newIdentitySupplier(cfg *config.Config, log *zap.Logger) (auth.IdentitySupplier, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.App.IsProduction() {
			return nil, errors.New("auth.jwt_secret is required in production")
		}
		secret = "dev-insecure-secret"
		log.Warn("auth.jwt_secret not set; using an insecure development secret")
	}
	identity, err := auth.NewJWTSupplier(secret, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("build identity supplier: %w", err)
	}
	return identity, nil
}
