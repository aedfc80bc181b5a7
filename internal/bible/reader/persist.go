// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/taibuivan/lectio/internal/platform/constants"
)

// ensureLoaded reads settings and annotations once. The caller holds the lock.
func (reader *Reader) ensureLoaded(ctx context.Context) {
	if reader.loaded {
		return
	}
	reader.loaded = true

	settings := DefaultSettings()
	if reader.readJSON(ctx, constants.StorageKeySettings, &settings) {
		if err := settings.Validate(); err != nil {
			reader.logger.WarnContext(ctx, "reader_settings_discarded", slog.Any("error", err))
		} else {
			reader.settings = settings
		}
	}

	reader.readJSON(ctx, constants.StorageKeyHighlights, &reader.highlights)
	reader.readJSON(ctx, constants.StorageKeyBookmarks, &reader.bookmarks)

	// Entries written before ids existed, or sharing an id, get a fresh one
	if reader.assignHighlightIDs() {
		reader.writeJSON(ctx, constants.StorageKeyHighlights, reader.highlights)
	}
	if reader.assignBookmarkIDs() {
		reader.writeJSON(ctx, constants.StorageKeyBookmarks, reader.bookmarks)
	}
}

func (reader *Reader) assignHighlightIDs() bool {
	return reader.uniqueIDs(len(reader.highlights), func(i int) *string { return &reader.highlights[i].ID })
}

func (reader *Reader) assignBookmarkIDs() bool {
	return reader.uniqueIDs(len(reader.bookmarks), func(i int) *string { return &reader.bookmarks[i].ID })
}

// uniqueIDs gives every empty or already seen id a fresh value. The first entry
// carrying an id keeps it. It reports whether any id changed.
func (reader *Reader) uniqueIDs(count int, idAt func(int) *string) bool {
	seen := make(map[string]struct{}, count)
	changed := false
	for i := range count {
		id := idAt(i)
		if _, taken := seen[*id]; *id == "" || taken {
			*id = reader.newID()
			changed = true
		}
		seen[*id] = struct{}{}
	}
	return changed
}

// # Storage Helpers

func (reader *Reader) readString(ctx context.Context, key string) string {
	value, found, err := reader.store.Get(ctx, key)
	if err != nil {
		reader.logger.WarnContext(ctx, "reader_storage_read_failed", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	if !found {
		return ""
	}
	return value
}

func (reader *Reader) writeString(ctx context.Context, key, value string) {
	if err := reader.store.Set(ctx, key, value); err != nil {
		reader.logger.WarnContext(ctx, "reader_storage_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (reader *Reader) removeKey(ctx context.Context, key string) {
	if err := reader.store.Remove(ctx, key); err != nil {
		reader.logger.WarnContext(ctx, "reader_storage_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// readJSON decodes key into dst and reports whether it did.
func (reader *Reader) readJSON(ctx context.Context, key string, dst any) bool {
	raw := reader.readString(ctx, key)
	if raw == "" {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		reader.logger.WarnContext(ctx, "reader_storage_decode_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (reader *Reader) writeJSON(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		reader.logger.WarnContext(ctx, "reader_storage_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	reader.writeString(ctx, key, string(raw))
}
