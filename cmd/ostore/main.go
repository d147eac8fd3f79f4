// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/olegiv/ostore-go/internal/cache"
	"github.com/olegiv/ostore-go/internal/cart"
	"github.com/olegiv/ostore-go/internal/config"
	"github.com/olegiv/ostore-go/internal/handler"
	"github.com/olegiv/ostore-go/internal/logging"
	"github.com/olegiv/ostore-go/internal/middleware"
	"github.com/olegiv/ostore-go/internal/render"
	"github.com/olegiv/ostore-go/internal/scheduler"
	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/session"
	"github.com/olegiv/ostore-go/internal/store"
	"github.com/olegiv/ostore-go/internal/version"
	"github.com/olegiv/ostore-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oStore - sports equipment storefront\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_SESSION_SECRET        Session and CSRF key (required in production, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_DB_PATH               SQLite database path (default: ./data/ostore.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_SERVER_HOST           Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_SERVER_PORT           Listen port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_ENV                   development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_LOG_LEVEL             debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_DO_SEED               Seed the demo catalog into an empty database (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_EVENT_RETENTION_DAYS  Days of audit events to keep (default: 30)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_REDIS_URL             Redis cache URL; in-memory cache when unset\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OSTORE_CACHE_TTL             Cache entry lifetime in seconds (default: 300)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(versionInfo version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if cfg.UsesFallbackSecret() {
		slog.Warn("OSTORE_SESSION_SECRET is not set; using the insecure development secret")
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// From here on WARN and ERROR records also land in the event log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	cartManager := cart.NewManager(sessionManager)

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates(),
		ContentFS:      web.Content(),
		SessionManager: sessionManager,
		Cart:           cartManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.DefaultTTL = cfg.CacheTTL()
	appCache, err := cache.New(cacheCfg)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = appCache.Close() }()

	eventService := service.NewEventService(db)
	catalogService := service.NewCatalogService(db).WithCache(appCache, cfg.CacheTTL())
	productService := service.NewProductService(db, eventService).WithCache(appCache)
	accountService := service.NewAccountService(db, eventService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	sched := scheduler.New(logger)
	if err := scheduler.RegisterMaintenance(sched, eventService, cfg.EventRetention(), catalogService, metrics); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	if err := sched.RunNow(scheduler.JobCatalogGauges); err != nil {
		slog.Warn("initial catalog gauge refresh failed", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: cfg.LoginRate,
		IPBurst:     cfg.LoginBurst,
	})

	router := handler.NewRouter(handler.RouterConfig{
		DB:              db,
		SessionManager:  sessionManager,
		Renderer:        renderer,
		Cart:            cartManager,
		Catalog:         catalogService,
		Products:        productService,
		Accounts:        accountService,
		Events:          eventService,
		Metrics:         metrics,
		LoginProtection: loginProtection,
		CSRF:            middleware.DefaultCSRFConfig(cfg.CSRFKey(), cfg.IsDevelopment()),
		SecurityHeaders: middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		StaticFS:        web.Static(),
		Version:         versionInfo.Version,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
