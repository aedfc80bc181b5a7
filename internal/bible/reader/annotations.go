// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"slices"

	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/validate"
)

// highlightAlpha is appended to a "#rrggbb" color to make highlights translucent.
const highlightAlpha = "40"

// # Highlights

/*
AddHighlight highlights the verse containing a text selection.

Description: The selection must resolve to a verse of the loaded chapter. When it
does not (no chapter loaded, unknown verse id), the action is dropped silently. An
empty color uses the highlight color from the settings; any other color must be
"#rrggbb".

Parameters:
  - ctx: context.Context
  - selection: Selection
  - color: string ("#rrggbb" or empty)
  - note: string (Optional)

Returns:
  - Highlight: The stored highlight
  - bool: false when the selection did not resolve
  - error: VALIDATION_ERROR for a malformed color
*/
func (reader *Reader) AddHighlight(ctx context.Context, selection Selection, color, note string) (Highlight, bool, error) {
	if color != "" {
		validator := &validate.Validator{}
		validator.HexColor("color", color)
		if err := validator.Err(); err != nil {
			return Highlight{}, false, err
		}
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	if reader.phase != PhaseChapterLoaded || selection.VerseID == "" {
		return Highlight{}, false, nil
	}
	if !slices.ContainsFunc(reader.verses, func(verse remote.Verse) bool { return verse.ID == selection.VerseID }) {
		return Highlight{}, false, nil
	}

	if color == "" {
		color = reader.settings.HighlightColor
	}

	highlight := Highlight{
		ID:        reader.newID(),
		VerseID:   selection.VerseID,
		Color:     color + highlightAlpha,
		Note:      note,
		Timestamp: reader.clock().UnixMilli(),
	}

	reader.highlights = append(reader.highlights, highlight)
	reader.writeJSON(ctx, constants.StorageKeyHighlights, reader.highlights)

	return highlight, true, nil
}

// RemoveHighlight deletes a highlight by id and reports whether it existed.
func (reader *Reader) RemoveHighlight(ctx context.Context, id string) bool {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	before := len(reader.highlights)
	reader.highlights = slices.DeleteFunc(reader.highlights, func(highlight Highlight) bool { return highlight.ID == id })
	if len(reader.highlights) == before {
		return false
	}

	reader.writeJSON(ctx, constants.StorageKeyHighlights, reader.highlights)
	return true
}

// Highlights returns every highlight in creation order.
func (reader *Reader) Highlights(ctx context.Context) []Highlight {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	return append([]Highlight{}, reader.highlights...)
}

// HighlightFor returns the most recent highlight of a verse.
func (reader *Reader) HighlightFor(ctx context.Context, verseID string) (Highlight, bool) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	for i := len(reader.highlights) - 1; i >= 0; i-- {
		if reader.highlights[i].VerseID == verseID {
			return reader.highlights[i], true
		}
	}
	return Highlight{}, false
}

// # Bookmarks

// AddBookmark bookmarks a verse of the selected chapter.
func (reader *Reader) AddBookmark(ctx context.Context, verse int, note string) (Bookmark, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	if reader.chapter == 0 || reader.translation == "" {
		return Bookmark{}, invalidInput("chapter", "Select a chapter first")
	}

	if count := reader.lookup.VerseCount(reader.bookIndex, reader.chapter); verse < 1 || (count > 0 && verse > count) {
		return Bookmark{}, invalidInput("verse", "Verse is outside the selected chapter")
	}

	bookmark := Bookmark{
		ID:          reader.newID(),
		Translation: reader.translation,
		Book:        reader.bookName(),
		Chapter:     reader.chapter,
		Verse:       verse,
		Timestamp:   reader.clock().UnixMilli(),
		Note:        note,
	}

	reader.bookmarks = append(reader.bookmarks, bookmark)
	reader.writeJSON(ctx, constants.StorageKeyBookmarks, reader.bookmarks)

	return bookmark, nil
}

// RemoveBookmark deletes a bookmark by id and reports whether it existed.
func (reader *Reader) RemoveBookmark(ctx context.Context, id string) bool {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	before := len(reader.bookmarks)
	reader.bookmarks = slices.DeleteFunc(reader.bookmarks, func(bookmark Bookmark) bool { return bookmark.ID == id })
	if len(reader.bookmarks) == before {
		return false
	}

	reader.writeJSON(ctx, constants.StorageKeyBookmarks, reader.bookmarks)
	return true
}

// Bookmarks returns every bookmark in creation order.
func (reader *Reader) Bookmarks(ctx context.Context) []Bookmark {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	return append([]Bookmark{}, reader.bookmarks...)
}

// IsBookmarked reports whether a verse carries at least one bookmark.
func (reader *Reader) IsBookmarked(ctx context.Context, translation, book string, chapter, verse int) bool {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	return slices.ContainsFunc(reader.bookmarks, func(bookmark Bookmark) bool {
		return bookmark.Translation == translation &&
			bookmark.Book == book &&
			bookmark.Chapter == chapter &&
			bookmark.Verse == verse
	})
}

// OpenBookmark navigates to a bookmark's translation, book and chapter.
func (reader *Reader) OpenBookmark(ctx context.Context, id string) (*Pending, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	index := slices.IndexFunc(reader.bookmarks, func(bookmark Bookmark) bool { return bookmark.ID == id })
	if index < 0 {
		return nil, ErrBookmarkNotFound
	}
	bookmark := reader.bookmarks[index]

	bookIndex, found := reader.lookup.BookIndex(bookmark.Book)
	if !found || !reader.lookup.ValidChapter(bookIndex, bookmark.Chapter) {
		return nil, invalidInput("bookmark", "Bookmark no longer addresses a valid chapter")
	}

	reader.translation = bookmark.Translation
	reader.writeString(ctx, constants.StorageKeyTranslation, bookmark.Translation)

	reader.bookIndex = bookIndex
	reader.writeString(ctx, constants.StorageKeyBook, reader.bookName())

	return reader.selectChapterLocked(ctx, bookmark.Chapter), nil
}
