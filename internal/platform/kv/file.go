// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// FileStore persists all keys as one JSON object on disk. Every write rewrites the
// document through a temporary file followed by a rename, so a crash never leaves a
// half-written file behind.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]string
}

// NewFileStore opens (or creates) the document at path. A missing or empty file
// yields an empty store.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("kv: failed to load %s: %w", path, err)
	}

	return store, nil
}

func (store *FileStore) load() error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return err
	}

	file, err := os.Open(store.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&store.data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	if store.data == nil {
		store.data = make(map[string]string)
	}

	return nil
}

// Get implements [Store].
func (store *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, found := store.data[key]
	return value, found, nil
}

// Set implements [Store].
func (store *FileStore) Set(ctx context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	previous, existed := store.data[key]
	store.data[key] = value

	if err := store.save(); err != nil {
		// Keep memory consistent with disk
		if existed {
			store.data[key] = previous
		} else {
			delete(store.data, key)
		}
		return err
	}

	return nil
}

// Remove implements [Store].
func (store *FileStore) Remove(ctx context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	previous, existed := store.data[key]
	if !existed {
		return nil
	}
	delete(store.data, key)

	if err := store.save(); err != nil {
		store.data[key] = previous
		return err
	}

	return nil
}

// Keys implements [Store].
func (store *FileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
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

// save writes the document atomically. Callers hold the write lock.
func (store *FileStore) save() error {
	tmpPath := store.path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("kv: creating temp file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(store.data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("kv: encoding document: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("kv: closing temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, store.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("kv: renaming document: %w", err)
	}

	return nil
}
