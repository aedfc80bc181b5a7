// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package structure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/julianstephens/canonref/bibleref"
	"github.com/julianstephens/canonref/util"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/pkg/pointer"
)

// FieldReference is the field name reported on reference validation failures.
const FieldReference = "reference"

// referencePattern splits "1 John 3:16-18" into book, chapter, start and end verse.
var referencePattern = regexp.MustCompile(`^\s*([1-3]?\s*\p{L}[\p{L}\s.'-]*?)\.?\s*(?:(\d+)(?::(\d+)(?:\s*[-–]\s*(\d+))?)?)?\s*$`)

/*
ParseReference parses a human reference into a canonref [bibleref.BibleRef].

Description: Accepted forms are "Book", "Book C", "Book C:V" and "Book C:V-W".
The book is resolved through [Lookup.BookIndex]; chapter and verses are
bounds-checked against the structure table. A bare book resolves to chapter 1.

Parameters:
  - text: string (e.g. "Ps 23:1-3")

Returns:
  - *bibleref.BibleRef: OSIS code, chapter and optional verse range
  - error: apperr VALIDATION_ERROR describing the first violation
*/
func (lookup *Lookup) ParseReference(text string) (*bibleref.BibleRef, error) {
	match := referencePattern.FindStringSubmatch(text)
	if match == nil {
		return nil, invalidReference("Expected a reference like \"John 3:16\"")
	}

	index, found := lookup.BookIndex(strings.TrimSpace(match[1]))
	if !found {
		return nil, invalidReference(fmt.Sprintf("Unknown book %q", strings.TrimSpace(match[1])))
	}
	book, _ := lookup.Book(index)

	// A bare book name addresses its first chapter
	chapter := 1
	if match[2] != "" {
		chapter, _ = strconv.Atoi(match[2])
	}
	if !lookup.ValidChapter(index, chapter) {
		return nil, invalidReference(fmt.Sprintf("%s has chapters 1-%d", book.Name, lookup.TotalChapters(index)))
	}

	ref := &bibleref.BibleRef{OSIS: book.OSIS, Chapter: chapter}
	if match[3] == "" {
		return ref, nil
	}

	verseCount := lookup.VerseCount(index, chapter)
	start, _ := strconv.Atoi(match[3])
	if start < 1 || start > verseCount {
		return nil, invalidReference(fmt.Sprintf("%s %d has verses 1-%d", book.Name, chapter, verseCount))
	}

	verseRange := &util.VerseRange{StartVerse: start}
	if match[4] != "" {
		end, _ := strconv.Atoi(match[4])
		if end < start || end > verseCount {
			return nil, invalidReference(fmt.Sprintf("Verse range %d-%d is outside %s %d", start, end, book.Name, chapter))
		}
		if end > start {
			verseRange.EndVerse = pointer.To(end)
		}
	}
	ref.Verse = verseRange

	return ref, nil
}

// FormatReference renders a reference in the "Book C:V" form used by share payloads.
// A verse of zero renders the chapter only.
func FormatReference(book string, chapter, verse int) string {
	if verse <= 0 {
		return fmt.Sprintf("%s %d", book, chapter)
	}
	return fmt.Sprintf("%s %d:%d", book, chapter, verse)
}

// FormatBibleRef renders a parsed reference with the canonical book name.
func (lookup *Lookup) FormatBibleRef(ref *bibleref.BibleRef) string {
	name := ref.OSIS
	if index, found := lookup.IndexOfOSIS(ref.OSIS); found {
		name, _ = lookup.BookName(index)
	}

	if ref.Verse == nil {
		return FormatReference(name, ref.Chapter, 0)
	}

	text := FormatReference(name, ref.Chapter, ref.Verse.StartVerse)
	if end := pointer.Val(ref.Verse.EndVerse); end > ref.Verse.StartVerse {
		text += "-" + strconv.Itoa(end)
	}
	return text
}

func invalidReference(message string) *apperr.AppError {
	return apperr.ValidationError("Invalid reference", apperr.FieldError{
		Field:   FieldReference,
		Message: message,
	})
}
