// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the redis storage backend.

Every key lectio writes (cached API responses, warmed-book flags, reader
settings, bookmarks and highlights) becomes a plain string value, so a small pool
serves both binaries.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	poolSize     = 8
	minIdleConns = 1
	ioTimeout    = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

/*
NewClient parses redisURL and pings the server before returning.

Parameters:
  - ctx: context.Context (Bounds the first ping)
  - redisURL: string (redis:// or rediss:// URL)
  - logger: *slog.Logger

Returns:
  - *redis.Client: A connected client
  - error: URL or connection errors
*/
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parsing REDIS_URL: %w", err)
	}
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Ping checks the connection within pingTimeout. The readiness probe calls it.
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}
