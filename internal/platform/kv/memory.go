// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a process-local [Store]. It is the default medium for tests and
// for the server when no durable backend is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int
	quota int
}

// MemoryOption configures a [MemoryStore].
type MemoryOption func(store *MemoryStore)

// WithQuota bounds the total size (key plus value bytes) the store accepts.
// Zero means unbounded.
func WithQuota(bytes int) MemoryOption {
	return func(store *MemoryStore) {
		store.quota = bytes
	}
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{data: make(map[string]string)}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Get implements [Store].
func (store *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, found := store.data[key]
	return value, found, nil
}

// Set implements [Store].
func (store *MemoryStore) Set(ctx context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	// Account for the entry being replaced
	used := store.used + len(key) + len(value)
	if previous, found := store.data[key]; found {
		used -= len(key) + len(previous)
	}

	if store.quota > 0 && used > store.quota {
		return fmt.Errorf("kv: memory set %q: %w", key, ErrQuotaExceeded)
	}

	store.data[key] = value
	store.used = used
	return nil
}

// Remove implements [Store].
func (store *MemoryStore) Remove(ctx context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if previous, found := store.data[key]; found {
		store.used -= len(key) + len(previous)
		delete(store.data, key)
	}
	return nil
}

// Keys implements [Store].
func (store *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	keys := make([]string, 0, len(store.data))
	for key := range store.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored keys.
func (store *MemoryStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.data)
}
