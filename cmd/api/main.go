// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// Command api is the entry point for the Rooftop HTTP API server.
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

	"github.com/rooftophq/rooftop/internal/api"
	"github.com/rooftophq/rooftop/internal/contact"
	"github.com/rooftophq/rooftop/internal/listing"
	"github.com/rooftophq/rooftop/internal/platform/config"
	"github.com/rooftophq/rooftop/internal/platform/constants"
	"github.com/rooftophq/rooftop/internal/platform/email"
	"github.com/rooftophq/rooftop/internal/platform/migration"
	pgstore "github.com/rooftophq/rooftop/internal/platform/postgres"
	redisstore "github.com/rooftophq/rooftop/internal/platform/redis"
	"github.com/rooftophq/rooftop/internal/platform/sec"
	"github.com/rooftophq/rooftop/internal/platform/storage"
	"github.com/rooftophq/rooftop/internal/users/account"
	"github.com/rooftophq/rooftop/internal/users/auth"
	"github.com/rooftophq/rooftop/internal/users/wishlist"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "rooftop"))
	slog.SetDefault(log)

	log.Info("[Rooftop] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "rooftop"))
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

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.TokenSecret, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Outbound Services (mail, object storage) ───────────────────────
	var mailer email.Mailer
	if cfg.SMTPHost != "" {
		mailer = email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, log)
	} else {
		// Local development: mail lands in the log instead of an inbox.
		log.Warn("smtp_not_configured_using_log_mailer")
		mailer = &email.LogMailer{Logger: log}
	}

	objectStore, err := storage.NewS3Store(startupCtx, storage.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	must(log, err, "initialize object storage")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	pendingRepository := auth.NewPendingRegistrationRepository(rdb)
	authService := auth.NewService(userRepository, pendingRepository, jwtSvc, mailer, cfg.ClientURL)
	authHandler := auth.NewHandler(authService)

	adRepository := listing.NewAdRepository(pool)
	listingService := listing.NewService(adRepository, objectStore, cfg.RentPeriodSet())
	listingHandler := listing.NewHandler(listingService)

	accountService := account.NewService(userRepository)
	accountHandler := account.NewHandler(accountService)

	wishlistRepository := wishlist.NewRepository(pool)
	wishlistService := wishlist.NewService(wishlistRepository)
	wishlistHandler := wishlist.NewHandler(wishlistService)

	contactRepository := contact.NewRepository(pool)
	contactService := contact.NewService(contactRepository, userRepository, mailer)
	contactHandler := contact.NewHandler(contactService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Listing:   listingHandler,
		Account:   accountHandler,
		Wishlist:  wishlistHandler,
		Contact:   contactHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, userRepository, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
