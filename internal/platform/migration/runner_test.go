// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://lectio:secret@db:5432/lectio", "pgx5://lectio:secret@db:5432/lectio"},
		{"postgresql://db/lectio?sslmode=disable", "pgx5://db/lectio?sslmode=disable"},
		{"pgx5://db/lectio", "pgx5://db/lectio"},
		{"host=db dbname=lectio", "host=db dbname=lectio"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DriverURL(tt.dsn), tt.dsn)
	}
}

func TestRunUp_MissingSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := RunUp("postgres://127.0.0.1:1/lectio", t.TempDir()+"/absent", logger)
	assert.Error(t, err)
}
