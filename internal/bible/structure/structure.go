// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package structure holds the static shape of the canon and answers structural questions
about it without touching the network.

The Structure Table maps a 1-based book index to its chapter count and the verse count
of every chapter. The Catalog lists the books in canonical order with their OSIS codes
and aliases. Both are embedded in the binary and decoded once.

Usage:

	lookup, err := structure.Default()
	index, ok := lookup.BookIndex("John")
	chapters := lookup.ChaptersFor(index)   // [1 .. 21]
	verses := lookup.VerseCount(index, 3)   // 36

Architecture:

  - Immutability: tables are never modified after load.
  - Purity: every lookup is a deterministic function of the tables.
  - Concurrency: a [Lookup] is safe for concurrent use without locking.
*/
package structure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

//go:embed data/structure.json
var structureJSON []byte

//go:embed data/books.json
var booksJSON []byte

// # Structure Table

// BookStructure describes one book: its chapter count and the verse count per chapter.
//
// A chapter missing from Chapters has zero verses.
type BookStructure struct {
	TotalChapters int         `json:"totalChapters"`
	Chapters      map[int]int `json:"chapters"`
}

// Table maps a 1-based book index to its [BookStructure].
type Table map[int]BookStructure

// rawBookStructure mirrors the on-disk shape, where every key is a string.
type rawBookStructure struct {
	TotalChapters int            `json:"totalChapters"`
	Chapters      map[string]int `json:"chapters"`
}

/*
LoadTable decodes a structure table.

Description: The expected shape is an object keyed by book index, each value
holding "totalChapters" and a "chapters" object keyed by chapter number. Keys
that are not positive integers, negative counts, and chapter keys outside
1..totalChapters are rejected.

Parameters:
  - reader: io.Reader (JSON document)

Returns:
  - Table: The decoded table
  - error: Decoding or invariant violations
*/
func LoadTable(reader io.Reader) (Table, error) {
	var raw map[string]rawBookStructure
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("structure: decoding table: %w", err)
	}

	table := make(Table, len(raw))
	for bookKey, book := range raw {
		bookIndex, err := strconv.Atoi(bookKey)
		if err != nil || bookIndex < 1 {
			return nil, fmt.Errorf("structure: invalid book key %q", bookKey)
		}

		if book.TotalChapters < 0 {
			return nil, fmt.Errorf("structure: book %d has negative chapter count", bookIndex)
		}

		chapters := make(map[int]int, len(book.Chapters))
		for chapterKey, verses := range book.Chapters {
			chapter, err := strconv.Atoi(chapterKey)
			if err != nil || chapter < 1 || chapter > book.TotalChapters {
				return nil, fmt.Errorf("structure: book %d has invalid chapter key %q", bookIndex, chapterKey)
			}
			if verses < 0 {
				return nil, fmt.Errorf("structure: book %d chapter %d has negative verse count", bookIndex, chapter)
			}
			chapters[chapter] = verses
		}

		table[bookIndex] = BookStructure{TotalChapters: book.TotalChapters, Chapters: chapters}
	}

	return table, nil
}

// # Catalog

// Book is one entry of the canonical ordered book list.
type Book struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	OSIS      string   `json:"osis"`
	Testament string   `json:"testament"`
	Aliases   []string `json:"aliases,omitempty"`
	Chapters  int      `json:"chapters"`
}

type rawCatalog struct {
	Books []struct {
		Name      string   `json:"name"`
		OSIS      string   `json:"osis"`
		Testament string   `json:"testament"`
		Aliases   []string `json:"aliases"`
	} `json:"books"`
}

// LoadCatalog decodes the ordered book list. Indices are assigned from list order,
// starting at 1, and chapter counts are taken from table.
func LoadCatalog(reader io.Reader, table Table) ([]Book, error) {
	var raw rawCatalog
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("structure: decoding catalog: %w", err)
	}

	books := make([]Book, 0, len(raw.Books))
	for position, entry := range raw.Books {
		if entry.Name == "" || entry.OSIS == "" {
			return nil, fmt.Errorf("structure: catalog entry %d lacks a name or OSIS code", position+1)
		}

		books = append(books, Book{
			Index:     position + 1,
			Name:      entry.Name,
			OSIS:      entry.OSIS,
			Testament: entry.Testament,
			Aliases:   entry.Aliases,
			Chapters:  table[position+1].TotalChapters,
		})
	}

	return books, nil
}
