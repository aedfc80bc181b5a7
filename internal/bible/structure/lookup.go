// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package structure

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/canonref/bibleref"

	"github.com/taibuivan/lectio/pkg/slug"
)

// # Lookup Service

// Lookup resolves book names to indices and indices to valid chapter and verse ranges.
//
// Unknown books and out-of-range chapters are never errors: they resolve to
// (0, false), empty slices, or zero counts.
type Lookup struct {
	table  Table
	books  []Book
	byKey  map[string]int
	byOSIS map[string]int
	canon  *bibleref.Table
}

/*
NewLookup builds a [Lookup] over a structure table and an ordered catalog.

Description: The catalog is registered with the canonref table so that parsed
references carry canonical OSIS codes. Name, OSIS code and aliases are indexed
in their slug form, with and without hyphens, so "1 Samuel", "1-samuel",
"1samuel" and "1Sam" all resolve to the same book.

Parameters:
  - table: Table
  - books: []Book (ordered; Index must equal position + 1)

Returns:
  - *Lookup: Ready for concurrent use
  - error: Catalog inconsistencies
*/
func NewLookup(table Table, books []Book) (*Lookup, error) {
	lookup := &Lookup{
		table:  table,
		books:  books,
		byKey:  make(map[string]int, len(books)*4),
		byOSIS: make(map[string]int, len(books)),
	}

	canonBooks := make([]bibleref.Book, 0, len(books))
	for position, book := range books {
		if book.Index != position+1 {
			return nil, fmt.Errorf("structure: book %q has index %d at position %d", book.Name, book.Index, position+1)
		}

		canonBooks = append(canonBooks, bibleref.Book{
			OSIS:      book.OSIS,
			Name:      book.Name,
			Aliases:   book.Aliases,
			Testament: book.Testament,
			Order:     book.Index,
			Chapters:  book.Chapters,
		})
		lookup.byOSIS[book.OSIS] = book.Index

		// Register every spelling under which the book may be requested
		for _, spelling := range append([]string{book.Name, book.OSIS}, book.Aliases...) {
			lookup.register(spelling, book.Index)
		}
	}

	canon, err := bibleref.NewTable(canonBooks)
	if err != nil {
		return nil, fmt.Errorf("structure: building canon table: %w", err)
	}
	lookup.canon = canon

	return lookup, nil
}

// register indexes a spelling without overwriting an earlier book.
func (lookup *Lookup) register(spelling string, index int) {
	key := slug.From(spelling)
	if key == "" {
		return
	}
	for _, variant := range []string{key, strings.ReplaceAll(key, "-", "")} {
		if _, taken := lookup.byKey[variant]; !taken {
			lookup.byKey[variant] = index
		}
	}
}

var defaultTable = sync.OnceValues(func() (Table, error) {
	return LoadTable(bytes.NewReader(structureJSON))
})

// DefaultTable returns the embedded structure table, decoded once per process.
// Callers must not modify it.
func DefaultTable() (Table, error) {
	return defaultTable()
}

var defaultLookup = sync.OnceValues(func() (*Lookup, error) {
	table, err := defaultTable()
	if err != nil {
		return nil, err
	}

	books, err := LoadCatalog(bytes.NewReader(booksJSON), table)
	if err != nil {
		return nil, err
	}

	return NewLookup(table, books)
})

// Default returns the [Lookup] over the embedded 66-book table. The embedded data is
// decoded once per process.
func Default() (*Lookup, error) {
	return defaultLookup()
}

// # Book Resolution

// BookIndex returns the 1-based canonical position of name.
//
// Matching is case, accent and punctuation insensitive and accepts OSIS codes
// and aliases. The boolean is false for unknown books.
func (lookup *Lookup) BookIndex(name string) (int, bool) {
	key := slug.From(name)
	if key == "" {
		return 0, false
	}

	if index, found := lookup.byKey[key]; found {
		return index, true
	}

	index, found := lookup.byKey[strings.ReplaceAll(key, "-", "")]
	return index, found
}

// BookName returns the canonical name at index.
func (lookup *Lookup) BookName(index int) (string, bool) {
	if index < 1 || index > len(lookup.books) {
		return "", false
	}
	return lookup.books[index-1].Name, true
}

// Book returns the catalog entry at index.
func (lookup *Lookup) Book(index int) (Book, bool) {
	if index < 1 || index > len(lookup.books) {
		return Book{}, false
	}
	return lookup.books[index-1], true
}

// Books returns the catalog in canonical order. The slice is a copy.
func (lookup *Lookup) Books() []Book {
	books := make([]Book, len(lookup.books))
	copy(books, lookup.books)
	return books
}

// IndexOfOSIS resolves an exact OSIS code such as "1Sam" or "John".
func (lookup *Lookup) IndexOfOSIS(osis string) (int, bool) {
	index, found := lookup.byOSIS[osis]
	return index, found
}

// Canon exposes the canonref table built from the catalog.
func (lookup *Lookup) Canon() *bibleref.Table {
	return lookup.canon
}

// # Chapter & Verse Ranges

// ChaptersFor returns [1 .. totalChapters] for the book at index, or an empty
// slice when the book is unknown or has no chapters.
func (lookup *Lookup) ChaptersFor(index int) []int {
	book, found := lookup.table[index]
	if !found || book.TotalChapters <= 0 {
		return []int{}
	}

	chapters := make([]int, book.TotalChapters)
	for i := range chapters {
		chapters[i] = i + 1
	}
	return chapters
}

// ChaptersForName is [Lookup.ChaptersFor] keyed by book name.
func (lookup *Lookup) ChaptersForName(name string) []int {
	index, found := lookup.BookIndex(name)
	if !found {
		return []int{}
	}
	return lookup.ChaptersFor(index)
}

// TotalChapters returns the chapter count of the book at index, or 0.
func (lookup *Lookup) TotalChapters(index int) int {
	book, found := lookup.table[index]
	if !found || book.TotalChapters < 0 {
		return 0
	}
	return book.TotalChapters
}

// ValidChapter reports whether chapter lies within [Lookup.ChaptersFor] of index.
func (lookup *Lookup) ValidChapter(index, chapter int) bool {
	return chapter >= 1 && chapter <= lookup.TotalChapters(index)
}

// VerseCount returns the number of verses in a chapter. It is 0 when the book is
// unknown, the chapter lies outside 1..totalChapters, or the chapter entry is absent.
func (lookup *Lookup) VerseCount(index, chapter int) int {
	if !lookup.ValidChapter(index, chapter) {
		return 0
	}
	return lookup.table[index].Chapters[chapter]
}

// VerseCountForName is [Lookup.VerseCount] keyed by book name.
func (lookup *Lookup) VerseCountForName(name string, chapter int) int {
	index, found := lookup.BookIndex(name)
	if !found {
		return 0
	}
	return lookup.VerseCount(index, chapter)
}
