// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/constants"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export is a portable copy of a reader's settings and annotations.
type Export struct {
	ExportedAt time.Time   `json:"exportedAt" yaml:"exportedAt"`
	Settings   Settings    `json:"settings" yaml:"settings"`
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
	Bookmarks  []Bookmark  `json:"bookmarks" yaml:"bookmarks"`
}

// Export returns the current settings and annotations.
func (reader *Reader) Export(ctx context.Context) Export {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	return Export{
		ExportedAt: reader.clock().UTC(),
		Settings:   reader.settings,
		Highlights: append([]Highlight{}, reader.highlights...),
		Bookmarks:  append([]Bookmark{}, reader.bookmarks...),
	}
}

// ImportExport replaces settings and annotations with the content of an export.
// Entries without an id, or repeating an earlier entry's id, are given a fresh one.
func (reader *Reader) ImportExport(ctx context.Context, export Export) error {
	if err := export.Settings.Validate(); err != nil {
		return err
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	reader.settings = export.Settings
	reader.highlights = append([]Highlight{}, export.Highlights...)
	reader.bookmarks = append([]Bookmark{}, export.Bookmarks...)
	reader.assignHighlightIDs()
	reader.assignBookmarkIDs()

	reader.writeJSON(ctx, constants.StorageKeySettings, reader.settings)
	reader.writeJSON(ctx, constants.StorageKeyHighlights, reader.highlights)
	reader.writeJSON(ctx, constants.StorageKeyBookmarks, reader.bookmarks)
	return nil
}

// MarshalExport encodes an export as JSON or YAML.
func MarshalExport(export Export, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		return json.MarshalIndent(export, "", "  ")
	case FormatYAML:
		return yaml.Marshal(export)
	default:
		return nil, unsupportedFormat(format)
	}
}

// UnmarshalExport decodes an export written by [MarshalExport].
func UnmarshalExport(data []byte, format string) (Export, error) {
	var export Export

	var err error
	switch format {
	case "", FormatJSON:
		err = json.Unmarshal(data, &export)
	case FormatYAML:
		err = yaml.Unmarshal(data, &export)
	default:
		return Export{}, unsupportedFormat(format)
	}

	if err != nil {
		return Export{}, fmt.Errorf("reader: decoding %s export: %w", format, err)
	}
	return export, nil
}

func unsupportedFormat(format string) *apperr.AppError {
	return invalidInput("format", fmt.Sprintf("Unsupported format %q, expected json or yaml", format))
}
