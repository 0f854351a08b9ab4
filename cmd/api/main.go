// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

// Command api is the entry point for the Castorie catalog API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/castorie/castorie/internal/api"
	"github.com/castorie/castorie/internal/catalog/assignment"
	"github.com/castorie/castorie/internal/catalog/category"
	"github.com/castorie/castorie/internal/catalog/facet"
	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/catalog/resolver"
	"github.com/castorie/castorie/internal/platform/config"
	"github.com/castorie/castorie/internal/platform/constants"
	"github.com/castorie/castorie/internal/platform/migration"
	pgstore "github.com/castorie/castorie/internal/platform/postgres"
	redisstore "github.com/castorie/castorie/internal/platform/redis"
	"github.com/castorie/castorie/internal/platform/sec"
	"github.com/castorie/castorie/internal/product"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Verification ─────────────────────────────────────────────
	// Operator tokens are issued by the identity service; this service only
	// verifies them.
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token verifier")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	categoryRepository := category.NewPostgresRepository(pool)
	filterRepository := filter.NewPostgresRepository(pool)
	assignmentRepository := assignment.NewPostgresRepository(pool)
	attributeStore := product.NewPostgresAttributeStore(pool)
	resolutionCache := resolver.NewRedisCache(rdb, cfg.ResolverCacheTTL)

	categoryService := category.NewService(categoryRepository, resolutionCache, log)
	filterService := filter.NewService(filterRepository, assignmentRepository, resolutionCache, log)
	assignmentService := assignment.NewService(assignmentRepository, categoryRepository, filterRepository, resolutionCache, log)
	resolverService := resolver.NewService(categoryRepository, filterRepository, assignmentRepository, resolutionCache, log)
	facetService := facet.NewService(resolverService, attributeStore, log)
	productService := product.NewService(resolverService, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Category:   category.NewHandler(categoryService),
		Filter:     filter.NewHandler(filterService),
		Assignment: assignment.NewHandler(assignmentService),
		Resolver:   resolver.NewHandler(resolverService),
		Facet:      facet.NewHandler(facetService),
		Product:    product.NewHandler(productService),
	}

	server := api.NewServer(startupCtx, cfg, log, verifier, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
