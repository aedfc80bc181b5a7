// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides the two local caches of the reader on top of a [kv.Store].

  - [TTLCache]: content-service responses, wrapped with a write timestamp and dropped
    once older than the configured TTL (24 hours by default).
  - [Store]: an unbounded in-memory map of structural data mirrored to the medium,
    either as a single snapshot or as one record per key.

Storage failures never reach the caller. A failed read is a miss, a failed write is
dropped, and both are handed to the configured [Reporter].
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/kv"
)

// # Options

type options struct {
	ttl      time.Duration
	clock    func() time.Time
	reporter Reporter
	prefix   string
	perKey   bool
}

// Option configures a [TTLCache] or a [Store].
type Option func(*options)

// WithTTL overrides the freshness window of a [TTLCache].
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock replaces [time.Now], mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithReporter sets the failure sink.
func WithReporter(reporter Reporter) Option {
	return func(o *options) { o.reporter = reporter }
}

// WithPrefix overrides the physical key prefix of a [TTLCache].
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithPerKey makes a [Store] persist one record per key instead of a full snapshot.
func WithPerKey() Option {
	return func(o *options) { o.perKey = true }
}

func buildOptions(opts []Option) options {
	o := options{
		ttl:      constants.CacheTTL,
		clock:    time.Now,
		reporter: discardReporter{},
		prefix:   constants.CacheKeyPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// # TTL Cache

// envelope is the persisted shape of a cached response.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TTLCache stores JSON payloads with a write timestamp.
type TTLCache struct {
	store    kv.Store
	ttl      time.Duration
	clock    func() time.Time
	reporter Reporter
	prefix   string
}

// NewTTLCache creates a [TTLCache] over store.
func NewTTLCache(store kv.Store, opts ...Option) *TTLCache {
	o := buildOptions(opts)
	return &TTLCache{
		store:    store,
		ttl:      o.ttl,
		clock:    o.clock,
		reporter: o.reporter,
		prefix:   o.prefix,
	}
}

// TTL returns the freshness window.
func (cache *TTLCache) TTL() time.Duration {
	return cache.ttl
}

/*
Get decodes the fresh payload stored under key into dst.

Description: An entry is fresh while now - timestamp <= TTL. An expired entry is
removed from the medium. Unreadable or undecodable entries are reported and treated
as misses.

Parameters:
  - ctx: context.Context
  - key: string (logical key, e.g. "verses_kjv_John_3")
  - dst: any (pointer to the decode target)

Returns:
  - bool: true on a fresh hit that decoded into dst
*/
func (cache *TTLCache) Get(ctx context.Context, key string, dst any) bool {
	physical := cache.prefix + key

	raw, found, err := cache.store.Get(ctx, physical)
	if err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpRead, Key: physical, Err: err})
		return false
	}
	if !found {
		return false
	}

	var entry envelope
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpDecode, Key: physical, Err: err})
		return false
	}

	age := cache.clock().Sub(time.UnixMilli(entry.Timestamp))
	if age > cache.ttl {
		if err := cache.store.Remove(ctx, physical); err != nil {
			cache.reporter.Report(ctx, Failure{Op: OpRemove, Key: physical, Err: err})
		}
		return false
	}

	if len(entry.Data) == 0 {
		cache.reporter.Report(ctx, Failure{Op: OpDecode, Key: physical, Err: errors.New("cache: entry has no data")})
		return false
	}
	if err := json.Unmarshal(entry.Data, dst); err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpDecode, Key: physical, Err: err})
		return false
	}

	return true
}

// Put stores payload under key with the current timestamp. Failures are reported and
// the write is dropped.
func (cache *TTLCache) Put(ctx context.Context, key string, payload any) {
	physical := cache.prefix + key

	data, err := json.Marshal(payload)
	if err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpWrite, Key: physical, Err: err})
		return
	}

	raw, err := json.Marshal(envelope{Data: data, Timestamp: cache.clock().UnixMilli()})
	if err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpWrite, Key: physical, Err: err})
		return
	}

	if err := cache.store.Set(ctx, physical, string(raw)); err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpWrite, Key: physical, Err: err})
	}
}

// Delete removes key.
func (cache *TTLCache) Delete(ctx context.Context, key string) {
	physical := cache.prefix + key
	if err := cache.store.Remove(ctx, physical); err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpRemove, Key: physical, Err: err})
	}
}

// Purge removes every entry under the cache prefix and returns how many were removed.
func (cache *TTLCache) Purge(ctx context.Context) int {
	keys, err := cache.store.Keys(ctx, cache.prefix)
	if err != nil {
		cache.reporter.Report(ctx, Failure{Op: OpRead, Key: cache.prefix, Err: err})
		return 0
	}

	removed := 0
	for _, key := range keys {
		if err := cache.store.Remove(ctx, key); err != nil {
			cache.reporter.Report(ctx, Failure{Op: OpRemove, Key: key, Err: err})
			continue
		}
		removed++
	}
	return removed
}

// GetTyped is [TTLCache.Get] returning the decoded value.
func GetTyped[T any](ctx context.Context, cache *TTLCache, key string) (T, bool) {
	var value T
	if !cache.Get(ctx, key, &value) {
		var zero T
		return zero, false
	}
	return value, true
}
