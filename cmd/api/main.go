// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Lectio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the key-value medium (memory, file, redis, postgres or sqlite).
//  4. Build the caches and the remote content client.
//  5. Load the canonical structure tables.
//  6. Wire the session, devotion and share services.
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

	"github.com/taibuivan/lectio/internal/api"
	"github.com/taibuivan/lectio/internal/bible/cache"
	"github.com/taibuivan/lectio/internal/bible/devotion"
	"github.com/taibuivan/lectio/internal/bible/reader"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/share"
	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/sec"
	"github.com/taibuivan/lectio/internal/platform/storage"
	"github.com/taibuivan/lectio/internal/platform/transport"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Lectio] service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Storage ────────────────────────────────────────────────────────
	backend, err := storage.Open(startupCtx, cfg, log)
	must(log, err, "open storage")
	defer func() {
		log.Info("closing storage", slog.String("backend", backend.Name))
		backend.Close()
	}()

	// ── 4. Caches and Remote Client ───────────────────────────────────────
	counters := &cache.Counters{}
	reporter := cache.MultiReporter{counters, cache.NewSlogReporter(log)}

	cacheOptions := []cache.Option{cache.WithTTL(cfg.CacheTTL), cache.WithReporter(reporter)}
	if cfg.StructureCacheMode == config.StructureCachePerKey {
		cacheOptions = append(cacheOptions, cache.WithPerKey())
	}

	responses := cache.NewTTLCache(backend.Store, cacheOptions...)
	warmStore := cache.NewStore(startupCtx, backend.Store, cacheOptions...)

	httpClient := transport.NewClient(cfg.BibleAPITimeout, log)
	client := remote.NewClient(cfg.BibleAPIBaseURL, responses,
		remote.WithHTTPClient(httpClient),
		remote.WithPageSize(cfg.BiblePageSize),
		remote.WithLogger(log),
		remote.WithWarmStore(warmStore),
	)

	// ── 5. Structure ──────────────────────────────────────────────────────
	lookup, err := structure.Default()
	must(log, err, "load structure tables")

	// ── 6. Sessions, Devotion and Share ───────────────────────────────────
	// serverCtx bounds the background loops and ends on shutdown.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	tokens, err := newTokenService(cfg, log)
	must(log, err, "initialize jwt service")

	sessions := reader.NewSessionService(
		reader.Deps{Content: client, Lookup: lookup, Store: backend.Store},
		tokens,
		reader.SessionConfig{
			TTL:                  cfg.SessionTTL,
			OperatorPasswordHash: cfg.OperatorPasswordHash,
			Logger:               log,
		},
	)
	go sessions.SweepIdle(serverCtx, constants.ReaderSweepInterval, constants.ReaderIdleTTL)

	feed := devotion.NewFeedSource(cfg.DailyVerseFeedURL, httpClient, responses, lookup, log)
	plan, err := devotion.NewPlan(lookup)
	must(log, err, "load reading plan")

	// The server has no clipboard; webhook first, then a file in SHARE_DIR.
	cascade := share.NewCascade(log,
		share.NewWebhook(cfg.ShareWebhookURL, httpClient),
		share.NewFile(cfg.ShareDir, nil),
	)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: backend.Name, Check: backend.Ping},
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Structure: structure.NewHandler(lookup),
		Content:   remote.NewHandler(client, lookup),
		Cache:     cache.NewHandler(responses, warmStore, counters),
		Reader:    reader.NewHandler(sessions),
		Devotion:  devotion.NewHandler(feed, plan, nil),
		Share:     share.NewHandler(cascade, sessions),
	}

	server := api.NewServer(serverCtx, cfg, log, tokens, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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

// newLogger returns the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// newTokenService loads the RSA key pair, or generates an ephemeral one when no
// key paths are configured. Ephemeral tokens do not survive a restart.
func newTokenService(cfg *config.Config, log *slog.Logger) (*sec.TokenService, error) {
	if cfg.JWTPrivKeyPath == "" {
		log.Warn("jwt_ephemeral_key", slog.String("reason", "JWT key paths not configured"))
		return sec.NewEphemeralTokenService(constants.AuthIssuer)
	}
	return sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
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
