// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the ids of sessions, bookmarks and highlights. They are
// version 7, so ids sort in creation order even when two annotations share a
// millisecond timestamp.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. It panics only if the system entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}
