// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by data/migrations, so SQL
// in the storage layer never spells an identifier by hand.
package schema

// LectioKVTable represents the 'lectio_kv' table
type LectioKVTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

// LectioKV is the schema definition for lectio_kv
var LectioKV = LectioKVTable{
	Table:     "lectio_kv",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updated_at",
}

func (t LectioKVTable) Columns() []string {
	return []string{t.Key, t.Value, t.UpdatedAt}
}
