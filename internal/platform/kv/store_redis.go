// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/lectio/internal/platform/dberr"
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

// RedisStore implements [Store] using Redis strings. Values never expire at the
// Redis level; time-based invalidation belongs to the cache layer.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed [Store].
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

/*
Get retrieves the value for a given key.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - string: Stored value
  - bool: false when redis reports a nil reply
  - error: Connectivity errors
*/
func (repository *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := repository.client.Get(ctx, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, dberr.Wrap(err, "redis_kv_get_failed")
	}

	return value, true, nil
}

// Set stores the value without expiry.
func (repository *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := repository.client.Set(ctx, key, value, 0).Err(); err != nil {
		return dberr.Wrap(err, "redis_kv_set_failed")
	}
	return nil
}

// Remove deletes the key.
func (repository *RedisStore) Remove(ctx context.Context, key string) error {
	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return dberr.Wrap(err, "redis_kv_delete_failed")
	}
	return nil
}

// Keys walks the keyspace with SCAN so large databases are never blocked by KEYS.
func (repository *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iterator := repository.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()
	for iterator.Next(ctx) {
		keys = append(keys, iterator.Val())
	}

	if err := iterator.Err(); err != nil {
		return nil, dberr.Wrap(err, "redis_kv_scan_failed")
	}

	sort.Strings(keys)
	return keys, nil
}

// escapeGlob escapes the MATCH pattern metacharacters of SCAN.
func escapeGlob(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return replacer.Replace(prefix)
}
