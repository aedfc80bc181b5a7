// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv provides the persistent key-value medium shared by the cache and the reader.

The medium is deliberately small: string keys, string values, get/set/remove and a
prefix scan. Every backend is fallible (capacity limits, network loss, disk errors)
and callers decide whether a failure matters.

Backends:

  - MemoryStore: process-local map with an optional byte quota.
  - FileStore: a single JSON document on disk, replaced atomically on every write.
  - RedisStore: go-redis client, shared with the readiness probe.
  - PostgresStore: pgx pool over the lectio_kv table created by migrations.
  - SQLiteStore: bun over an embedded SQLite database.

[Prefixed] scopes any backend to a key namespace, which is how reader sessions are isolated.
*/
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrQuotaExceeded is returned when a write would exceed the store capacity.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// # Storage Contract

// Store defines the data access contract for the persistent key-value medium.
type Store interface {

	/*
		Get returns the value stored under key.

		Parameters:
		  - ctx: context.Context
		  - key: string

		Returns:
		  - string: The stored value
		  - bool: false when the key is absent
		  - error: Backend failures only (absence is not an error)
	*/
	Get(ctx context.Context, key string) (string, bool, error)

	/*
		Set stores value under key, replacing any previous value.

		Parameters:
		  - ctx: context.Context
		  - key: string
		  - value: string

		Returns:
		  - error: Backend failures or [ErrQuotaExceeded]
	*/
	Set(ctx context.Context, key, value string) error

	/*
		Remove deletes key. Removing an absent key succeeds.

		Parameters:
		  - ctx: context.Context
		  - key: string

		Returns:
		  - error: Backend failures
	*/
	Remove(ctx context.Context, key string) error

	/*
		Keys lists every key starting with prefix, in ascending order.

		Parameters:
		  - ctx: context.Context
		  - prefix: string (empty lists everything)

		Returns:
		  - []string: Matching keys
		  - error: Backend failures
	*/
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// # Namespacing

// PrefixedStore scopes an underlying [Store] to keys starting with a fixed prefix.
type PrefixedStore struct {
	inner  Store
	prefix string
}

// Prefixed returns a [Store] whose keys are transparently prefixed.
func Prefixed(inner Store, prefix string) *PrefixedStore {
	return &PrefixedStore{inner: inner, prefix: prefix}
}

// Get implements [Store].
func (store *PrefixedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return store.inner.Get(ctx, store.prefix+key)
}

// Set implements [Store].
func (store *PrefixedStore) Set(ctx context.Context, key, value string) error {
	return store.inner.Set(ctx, store.prefix+key, value)
}

// Remove implements [Store].
func (store *PrefixedStore) Remove(ctx context.Context, key string) error {
	return store.inner.Remove(ctx, store.prefix+key)
}

// Keys implements [Store]. Returned keys have the namespace stripped.
func (store *PrefixedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := store.inner.Keys(ctx, store.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		keys[i] = strings.TrimPrefix(key, store.prefix)
	}
	return keys, nil
}

// escapeLike escapes SQL LIKE wildcards so a prefix is matched literally.
func escapeLike(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix)
}
