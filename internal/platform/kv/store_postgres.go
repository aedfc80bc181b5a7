// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lectio/internal/platform/database/schema"
	"github.com/taibuivan/lectio/internal/platform/dberr"
)

// PostgresStore implements [Store] over the lectio_kv table.
//
// The table is owned by the migrations in data/migrations; this type never
// issues DDL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// # Queries

var (
	queryKVGet = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.LectioKV.Value, schema.LectioKV.Table, schema.LectioKV.Key)

	queryKVSet = fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, now())
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.LectioKV.Table, strings.Join(schema.LectioKV.Columns(), ", "),
		schema.LectioKV.Key,
		schema.LectioKV.Value, schema.LectioKV.Value, schema.LectioKV.UpdatedAt, schema.LectioKV.UpdatedAt)

	queryKVDelete = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.LectioKV.Table, schema.LectioKV.Key)

	queryKVKeys = fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIKE $1 ESCAPE '\' ORDER BY %s`,
		schema.LectioKV.Key, schema.LectioKV.Table, schema.LectioKV.Key, schema.LectioKV.Key)
)

/*
Get returns the value stored under key.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - string: Stored value
  - bool: false when no row matches
  - error: Query failures
*/
func (repository *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := repository.pool.QueryRow(ctx, queryKVGet, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, dberr.Wrap(err, "postgres_kv_get_failed")
	}

	return value, true, nil
}

// Set upserts the value.
func (repository *PostgresStore) Set(ctx context.Context, key, value string) error {
	if _, err := repository.pool.Exec(ctx, queryKVSet, key, value); err != nil {
		return dberr.Wrap(err, "postgres_kv_set_failed")
	}
	return nil
}

// Remove deletes the row if present.
func (repository *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := repository.pool.Exec(ctx, queryKVDelete, key); err != nil {
		return dberr.Wrap(err, "postgres_kv_delete_failed")
	}
	return nil
}

// Keys lists keys by literal prefix.
func (repository *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := repository.pool.Query(ctx, queryKVKeys, escapeLike(prefix)+"%")
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_kv_keys_failed")
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_kv_keys_scan_failed")
	}

	return keys, nil
}
