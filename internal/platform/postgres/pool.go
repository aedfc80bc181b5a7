// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres owns the pgx pool behind the postgres storage backend.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lectio/internal/platform/constants"
)

// Every lectio query is a single-row upsert, read or delete on lectio_kv.
const (
	maxConns       = 10
	minConns       = 2
	maxConnIdle    = 10 * time.Minute
	maxConnAge     = time.Hour
	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second
)

/*
NewPool opens a pool and pings it once.

Description: Every new connection gets a statement_timeout equal to the request
timeout, so a stuck query cannot outlive the request that issued it.

Parameters:
  - ctx: context.Context (Bounds the connection attempt)
  - dsn: string (postgres:// URL or libpq string)
  - logger: *slog.Logger

Returns:
  - *pgxpool.Pool: A connected pool
  - error: DSN or connection errors
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing DATABASE_URL: %w", err)
	}
	config.MaxConns = maxConns
	config.MinConns = minConns
	config.MaxConnIdleTime = maxConnIdle
	config.MaxConnLifetime = maxConnAge
	config.ConnConfig.ConnectTimeout = connectTimeout

	statementTimeout := fmt.Sprintf("SET statement_timeout = %d", constants.GlobalRequestTimeout.Milliseconds())
	config.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeout)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening pool: %w", err)
	}
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_connected",
		slog.String("host", config.ConnConfig.Host),
		slog.String("database", config.ConnConfig.Database),
		slog.Int("max_conns", int(config.MaxConns)),
	)
	return pool, nil
}

// Ping checks the pool within pingTimeout. The readiness probe calls it.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
