package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/salesdash/explore/internal/cache"
	corecfg "github.com/salesdash/explore/internal/core/config"
	"github.com/salesdash/explore/internal/core/storage/postgres"
	"github.com/salesdash/explore/internal/explore"
	"github.com/salesdash/explore/internal/middleware"
	"github.com/salesdash/explore/internal/migrations"
	"github.com/salesdash/explore/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	flag.Parse()

	// 0. Bootstrap logger until config says otherwise
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config",
		"addr", cfg.Server.Addr(),
		"mode", cfg.Server.Mode,
		"auth_enabled", cfg.Auth.Enabled,
		"cache_enabled", cfg.Cache.Enabled,
		"parallel_queries", cfg.Explore.ParallelQueries)

	// 2. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.Apply(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	if err := dbAdapter.ValidateSchema(context.Background()); err != nil {
		slog.Error("Database schema is not ready", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Explore (query API)
	exploreSvc := explore.NewService(dbAdapter, explore.WithParallelQueries(cfg.Explore.ParallelQueries))

	// 4. Initialize Server
	srv := server.New(cfg.Server.Addr(), dbAdapter, server.Options{
		Mode:          cfg.Server.Mode,
		MaxBodySizeMB: cfg.Server.MaxBodySizeMB,
		Middleware: []gin.HandlerFunc{
			middleware.RequestID(),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerMinute: cfg.Server.RateLimitPerMinute,
				Burst:             cfg.Server.RateLimitBurst,
			}),
		},
	})

	exploreRoutes := srv.Engine.Group("/api/explore")
	exploreRoutes.Use(middleware.Auth(middleware.AuthConfig{
		Enabled:    cfg.Auth.Enabled,
		Secret:     cfg.Auth.JWTSecret,
		CookieName: cfg.Auth.CookieName,
	}))
	if cfg.Cache.Enabled {
		exploreRoutes.Use(middleware.Cache(cache.NewLRU(cfg.Cache.Capacity, cfg.Cache.TTLDuration())))
	}
	exploreSvc.RegisterRoutes(exploreRoutes)

	// 5. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
