// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage opens the key-value medium selected by STORAGE_BACKEND.

Both the API server and the terminal client go through [Open], so a single
configuration decides where settings, annotations and cached content live.
*/
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/kv"
	"github.com/taibuivan/lectio/internal/platform/migration"
	pgstore "github.com/taibuivan/lectio/internal/platform/postgres"
	redisstore "github.com/taibuivan/lectio/internal/platform/redis"
	"github.com/taibuivan/lectio/internal/platform/sqlite"
)

// Backend is an opened medium plus its lifecycle hooks.
type Backend struct {
	// Name is the configured backend (see the config.Backend constants).
	Name string

	// Store is the medium itself.
	Store kv.Store

	// Ping checks the connection. It is a no-op for in-process backends.
	Ping func(ctx context.Context) error

	// Close releases connections. It is always safe to call.
	Close func()
}

/*
Open connects to the configured backend.

Description: Postgres runs its migrations before the store is returned. SQLite
creates the table on first use. Memory and file backends never fail to ping.

Parameters:
  - ctx: context.Context (Bounds connection attempts)
  - cfg: *config.Config
  - logger: *slog.Logger

Returns:
  - *Backend: The opened medium
  - error: Connection, migration or file errors
*/
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	backend := &Backend{
		Name:  cfg.StorageBackend,
		Ping:  func(context.Context) error { return nil },
		Close: func() {},
	}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		backend.Store = kv.NewMemoryStore()

	case config.BackendFile:
		store, err := kv.NewFileStore(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("storage: opening %s: %w", cfg.StoragePath, err)
		}
		backend.Store = store

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		backend.Store = kv.NewRedisStore(client)
		backend.Ping = func(ctx context.Context) error { return redisstore.Ping(ctx, client) }
		backend.Close = func() {
			if err := client.Close(); err != nil {
				logger.Error("redis_close_failed", slog.Any("error", err))
			}
		}

	case config.BackendPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
			return nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		backend.Store = kv.NewPostgresStore(pool)
		backend.Ping = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
		backend.Close = pool.Close

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		store, err := kv.NewSQLiteStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		backend.Store = store
		backend.Ping = func(ctx context.Context) error { return sqlite.Ping(ctx, db) }
		backend.Close = func() {
			if err := db.Close(); err != nil {
				logger.Error("sqlite_close_failed", slog.Any("error", err))
			}
		}

	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
	}

	logger.Info("storage_opened", slog.String("backend", backend.Name))
	return backend, nil
}
