// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

// Package main is the entry point for the Cinelog server.
//
// Cinelog is a self-hosted movie catalog and review tracker. It keeps
// the catalog, reviews, user accounts, and their derived statistics in
// an embedded BadgerDB store and serves a versioned REST API on top.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables over config file over
//     built-in defaults (Koanf v2)
//  2. Record store: BadgerDB key-value store for movies, reviews,
//     users, sessions, and settings
//  3. Domain services: catalog, reviews, users
//  4. Authentication: bcrypt password hashing and JWT bearer tokens
//  5. HTTP server: Chi router with per-group rate limits and
//     Prometheus metrics
//
// Long-running pieces run under a suture supervisor tree: the HTTP
// listener in the api layer and the Badger value-log GC loop in the
// storage layer, so a crash in one is restarted without taking down
// the other.
//
// # Configuration
//
// Key environment variables (see internal/config for the full set):
//
//	CINELOG_SERVER_PORT       Listen port (default 8642)
//	CINELOG_STORAGE_PATH      BadgerDB directory (default /data/cinelog)
//	CINELOG_SECURITY_JWT_SECRET  Token signing secret, required in production
//	CINELOG_LOGGING_LEVEL     trace, debug, info, warn, error
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the listener
// stops accepting connections, in-flight requests get the configured
// shutdown timeout to finish, then the store is closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinelog/cinelog/internal/api"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/catalog"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/reviews"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/supervisor"
	"github.com/cinelog/cinelog/internal/supervisor/services"
	"github.com/cinelog/cinelog/internal/users"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage_path", cfg.Storage.Path).
		Bool("in_memory", cfg.Storage.InMemory).
		Msg("Starting Cinelog")

	st, err := store.Open(cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing record store")
		}
	}()
	logging.Info().Msg("Record store opened")

	// Validate already rejects an empty secret in production; in
	// development fall back to an insecure fixed one so tokens survive
	// restarts.
	jwtSecret := cfg.Security.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "cinelog-dev-secret"
		logging.Warn().Msg("No JWT secret configured; using an insecure development secret")
	}
	jwtManager, err := auth.NewJWTManager(jwtSecret, cfg.Security.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	catalogSvc := catalog.New(st)
	reviewsSvc := reviews.New(st)
	usersSvc := users.New(st, cfg.Security.BcryptCost)

	handler := api.NewHandler(st, catalogSvc, reviewsSvc, usersSvc, jwtManager, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(cfg.Security, jwtManager))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// In-memory stores have no value log on disk, so GC is pointless.
	if !cfg.Storage.InMemory {
		tree.AddStorageService(services.NewGCService(st, cfg.Storage.GCInterval, cfg.Storage.GCDiscardRatio))
		logging.Info().
			Dur("interval", cfg.Storage.GCInterval).
			Float64("discard_ratio", cfg.Storage.GCDiscardRatio).
			Msg("Value-log GC service added")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Cinelog stopped gracefully")
}
