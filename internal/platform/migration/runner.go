// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration brings the Postgres backend up to the schema in data/migrations.

Only the postgres storage backend runs it. The SQLite backend creates its table
through bun, and the memory, file and redis backends have no schema.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// pgx5Scheme is the scheme the golang-migrate pgx/v5 driver registers.
const pgx5Scheme = "pgx5://"

/*
RunUp applies every pending up migration found under dir.

Description: A database left dirty by an interrupted run is refused, since
lectio_kv may be half created. Nothing to apply is not an error.

Parameters:
  - dsn: string (postgres://, postgresql:// or pgx5:// URL)
  - dir: string (Directory holding the NNNNNN_name.up.sql files)
  - logger: *slog.Logger

Returns:
  - error: Source, connection or migration errors
*/
func RunUp(dsn string, dir string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+dir, DriverURL(dsn))
	if err != nil {
		return fmt.Errorf("migration: opening %s: %w", dir, err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if err := errors.Join(sourceErr, databaseErr); err != nil {
			logger.Warn("migration_close_failed", slog.Any("error", err))
		}
	}()
	migrator.Log = slogBridge{logger: logger}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration: reading version: %w", err)
	case dirty:
		return fmt.Errorf("migration: version %d is dirty, fix it by hand before starting", from)
	}

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration: applying: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("schema_migrated",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// DriverURL rewrites a Postgres URL to the pgx5 scheme. Other strings pass through.
func DriverURL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, found := strings.CutPrefix(dsn, scheme); found {
			return pgx5Scheme + rest
		}
	}
	return dsn
}

// slogBridge routes golang-migrate's chatter to debug logs.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug("migrate", slog.String("message", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (bridge slogBridge) Verbose() bool { return false }
