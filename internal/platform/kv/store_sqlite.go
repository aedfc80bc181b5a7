// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/uptrace/bun"

	"github.com/taibuivan/lectio/internal/platform/dberr"
)

// kvRecord is the bun model of one key-value row.
type kvRecord struct {
	bun.BaseModel `bun:"table:lectio_kv,alias:kv"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// SQLiteStore implements [Store] on an embedded SQLite database through bun.
type SQLiteStore struct {
	db *bun.DB
}

// NewSQLiteStore wraps db and creates the lectio_kv table if needed.
func NewSQLiteStore(ctx context.Context, db *bun.DB) (*SQLiteStore, error) {
	if _, err := db.NewCreateTable().Model((*kvRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("kv: failed to create lectio_kv table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get implements [Store].
func (repository *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	record := new(kvRecord)

	if err := repository.db.NewSelect().Model(record).Where("key = ?", key).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, dberr.Wrap(err, "sqlite_kv_get_failed")
	}

	return record.Value, true, nil
}

// Set implements [Store].
func (repository *SQLiteStore) Set(ctx context.Context, key, value string) error {
	record := &kvRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}

	_, err := repository.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return dberr.Wrap(err, "sqlite_kv_set_failed")
	}

	return nil
}

// Remove implements [Store].
func (repository *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := repository.db.NewDelete().Model((*kvRecord)(nil)).Where("key = ?", key).Exec(ctx); err != nil {
		return dberr.Wrap(err, "sqlite_kv_delete_failed")
	}
	return nil
}

// Keys implements [Store]. The prefix match is case-sensitive.
func (repository *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	err := repository.db.NewSelect().
		Model((*kvRecord)(nil)).
		Column("key").
		Where("substr(key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix).
		Order("key ASC").
		Scan(ctx, &keys)
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_kv_keys_failed")
	}

	return keys, nil
}
