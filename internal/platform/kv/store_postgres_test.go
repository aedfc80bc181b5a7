// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestPostgresQueries pins the SQL generated from the lectio_kv schema.
*/
func TestPostgresQueries(t *testing.T) {
	assert.Equal(t, `SELECT value FROM lectio_kv WHERE key = $1`, queryKVGet)
	assert.Equal(t, `DELETE FROM lectio_kv WHERE key = $1`, queryKVDelete)
	assert.Equal(t, `SELECT key FROM lectio_kv WHERE key LIKE $1 ESCAPE '\' ORDER BY key`, queryKVKeys)
	assert.Contains(t, queryKVSet, "INSERT INTO lectio_kv (key, value, updated_at)")
	assert.Contains(t, queryKVSet, "SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")
}
