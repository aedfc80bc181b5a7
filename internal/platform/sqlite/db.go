// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the embedded SQLite database used by the single-user
// deployment and the terminal client.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It owns the physical
// database handle and exposes it as a [*bun.DB] for the kv backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// pingTimeout is the maximum duration for a health check ping.
const pingTimeout = 2 * time.Second

// Open creates the database file (and its directory) if needed, enables WAL and
// returns a ready bun handle.
//
// # Parameters
//   - ctx: Context for the initial pragma and ping.
//   - path: Filesystem path of the database file.
//   - logger: Structured logger for connection events.
func Open(ctx context.Context, path string, logger *slog.Logger) (*bun.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: failed to create directory: %w", err)
	}

	sqlDB, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY under load
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL: %w", err)
	}

	db := bun.NewDB(sqlDB, sqlitedialect.New())

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite database opened", slog.String("path", path))

	return db, nil
}

// Ping verifies that the database handle is usable.
func Ping(ctx context.Context, db *bun.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return nil
}
