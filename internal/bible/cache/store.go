// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/kv"
)

// # Unbounded Store

// Store is an unbounded key-value cache held in memory and mirrored to a [kv.Store].
//
// Entries never expire. In snapshot mode every write persists the whole map as a JSON
// array of [key, value] pairs under a single key. In per-key mode each entry is its own
// record, so a write touches one record only. Writes are serialized by a single mutex.
type Store struct {
	mu       sync.RWMutex
	medium   kv.Store
	reporter Reporter
	perKey   bool
	order    []string
	entries  map[string]json.RawMessage
}

/*
NewStore creates a [Store] and eagerly loads whatever the medium holds.

Description: A missing or corrupt snapshot yields an empty store; the failure is
reported, never returned.

Parameters:
  - ctx: context.Context
  - medium: kv.Store
  - opts: ...Option ([WithPerKey], [WithReporter])

Returns:
  - *Store: Loaded store
*/
func NewStore(ctx context.Context, medium kv.Store, opts ...Option) *Store {
	o := buildOptions(opts)

	store := &Store{
		medium:   medium,
		reporter: o.reporter,
		perKey:   o.perKey,
		entries:  make(map[string]json.RawMessage),
	}

	if store.perKey {
		store.loadRecords(ctx)
	} else {
		store.loadSnapshot(ctx)
	}

	return store
}

func (store *Store) loadSnapshot(ctx context.Context) {
	raw, found, err := store.medium.Get(ctx, constants.StructureCacheKey)
	if err != nil {
		store.reporter.Report(ctx, Failure{Op: OpLoad, Key: constants.StructureCacheKey, Err: err})
		return
	}
	if !found {
		return
	}

	var pairs [][2]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		store.reporter.Report(ctx, Failure{Op: OpDecode, Key: constants.StructureCacheKey, Err: err})
		return
	}

	for _, pair := range pairs {
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil {
			store.reporter.Report(ctx, Failure{Op: OpDecode, Key: constants.StructureCacheKey, Err: err})
			continue
		}
		store.put(key, pair[1])
	}
}

func (store *Store) loadRecords(ctx context.Context) {
	prefix := constants.StructureCacheRecordPrefix

	keys, err := store.medium.Keys(ctx, prefix)
	if err != nil {
		store.reporter.Report(ctx, Failure{Op: OpLoad, Key: prefix, Err: err})
		return
	}

	for _, physical := range keys {
		raw, found, err := store.medium.Get(ctx, physical)
		if err != nil {
			store.reporter.Report(ctx, Failure{Op: OpLoad, Key: physical, Err: err})
			continue
		}
		if !found {
			continue
		}
		if !json.Valid([]byte(raw)) {
			store.reporter.Report(ctx, Failure{Op: OpDecode, Key: physical, Err: fmt.Errorf("cache: record is not valid JSON")})
			continue
		}
		store.put(strings.TrimPrefix(physical, prefix), json.RawMessage(raw))
	}
}

// put records an entry in memory, preserving first-insertion order. Callers hold the lock
// or own the store exclusively.
func (store *Store) put(key string, value json.RawMessage) {
	if _, exists := store.entries[key]; !exists {
		store.order = append(store.order, key)
	}
	store.entries[key] = value
}

// # Reads

// Get returns the raw JSON stored under key.
func (store *Store) Get(key string) (json.RawMessage, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, found := store.entries[key]
	return slices.Clone(value), found
}

// GetInto decodes the value under key into dst. It reports false on a miss or when the
// value does not fit dst.
func (store *Store) GetInto(key string, dst any) bool {
	value, found := store.Get(key)
	if !found {
		return false
	}
	return json.Unmarshal(value, dst) == nil
}

// Has reports whether key is present.
func (store *Store) Has(key string) bool {
	_, found := store.Get(key)
	return found
}

// Len returns the number of entries.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.entries)
}

// Keys returns the keys in insertion order.
func (store *Store) Keys() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return slices.Clone(store.order)
}

// # Writes

// Set stores value under key and persists the change. The in-memory entry is kept even
// when persistence fails.
func (store *Store) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		store.reporter.Report(ctx, Failure{Op: OpWrite, Key: key, Err: err})
		return
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.put(key, data)

	if store.perKey {
		store.writeRecord(ctx, key, data)
		return
	}
	store.writeSnapshot(ctx)
}

// Delete removes key and persists the change.
func (store *Store) Delete(ctx context.Context, key string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, found := store.entries[key]; !found {
		return
	}
	delete(store.entries, key)
	store.order = slices.DeleteFunc(store.order, func(existing string) bool { return existing == key })

	if store.perKey {
		store.removeRecord(ctx, constants.StructureCacheRecordPrefix+key)
		return
	}
	store.writeSnapshot(ctx)
}

// Clear empties the store and removes its persisted form. Clearing twice is harmless.
func (store *Store) Clear(ctx context.Context) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.entries = make(map[string]json.RawMessage)
	store.order = nil

	if !store.perKey {
		store.removeRecord(ctx, constants.StructureCacheKey)
		return
	}

	keys, err := store.medium.Keys(ctx, constants.StructureCacheRecordPrefix)
	if err != nil {
		store.reporter.Report(ctx, Failure{Op: OpRemove, Key: constants.StructureCacheRecordPrefix, Err: err})
		return
	}
	for _, physical := range keys {
		store.removeRecord(ctx, physical)
	}
}

func (store *Store) writeSnapshot(ctx context.Context) {
	pairs := make([][2]any, 0, len(store.order))
	for _, key := range store.order {
		pairs = append(pairs, [2]any{key, store.entries[key]})
	}

	raw, err := json.Marshal(pairs)
	if err != nil {
		store.reporter.Report(ctx, Failure{Op: OpWrite, Key: constants.StructureCacheKey, Err: err})
		return
	}

	if err := store.medium.Set(ctx, constants.StructureCacheKey, string(raw)); err != nil {
		store.reporter.Report(ctx, Failure{Op: OpWrite, Key: constants.StructureCacheKey, Err: err})
	}
}

func (store *Store) writeRecord(ctx context.Context, key string, data json.RawMessage) {
	physical := constants.StructureCacheRecordPrefix + key
	if err := store.medium.Set(ctx, physical, string(data)); err != nil {
		store.reporter.Report(ctx, Failure{Op: OpWrite, Key: physical, Err: err})
	}
}

func (store *Store) removeRecord(ctx context.Context, physical string) {
	if err := store.medium.Remove(ctx, physical); err != nil {
		store.reporter.Report(ctx, Failure{Op: OpRemove, Key: physical, Err: err})
	}
}
