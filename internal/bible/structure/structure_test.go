// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package structure_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/structure"
)

// genesisLike is a two-chapter table matching a single short book.
const genesisLike = `{"1": {"totalChapters": 2, "chapters": {"1": 31, "2": 25}}}`

func newGenesisLookup(t *testing.T) *structure.Lookup {
	t.Helper()

	table, err := structure.LoadTable(strings.NewReader(genesisLike))
	require.NoError(t, err)

	lookup, err := structure.NewLookup(table, []structure.Book{
		{Index: 1, Name: "Genesis", OSIS: "Gen", Testament: "OT", Chapters: 2},
	})
	require.NoError(t, err)
	return lookup
}

/*
TestLookup_GenesisLikeTable covers the two-chapter table scenario.
*/
func TestLookup_GenesisLikeTable(t *testing.T) {
	lookup := newGenesisLookup(t)

	assert.Equal(t, []int{1, 2}, lookup.ChaptersFor(1))
	assert.Equal(t, 31, lookup.VerseCount(1, 1))
	assert.Equal(t, 25, lookup.VerseCount(1, 2))
	assert.Equal(t, 0, lookup.VerseCount(1, 3))
	assert.Equal(t, 0, lookup.VerseCount(1, 0))
}

/*
TestLookup_UnknownBook verifies that misses resolve to explicit absence rather than a zero index.
*/
func TestLookup_UnknownBook(t *testing.T) {
	lookup := newGenesisLookup(t)

	index, found := lookup.BookIndex("Hezekiah")
	assert.False(t, found)
	assert.Zero(t, index)

	assert.Empty(t, lookup.ChaptersFor(2))
	assert.Empty(t, lookup.ChaptersForName("Hezekiah"))
	assert.Equal(t, 0, lookup.VerseCountForName("Hezekiah", 1))

	_, found = lookup.BookName(0)
	assert.False(t, found)
}

/*
TestLookup_MissingChapterEntry verifies that an absent chapter entry means zero verses.
*/
func TestLookup_MissingChapterEntry(t *testing.T) {
	table, err := structure.LoadTable(strings.NewReader(`{"1": {"totalChapters": 3, "chapters": {"1": 10}}}`))
	require.NoError(t, err)

	lookup, err := structure.NewLookup(table, []structure.Book{{Index: 1, Name: "Obadiah", OSIS: "Obad", Chapters: 3}})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, lookup.ChaptersFor(1))
	assert.Equal(t, 0, lookup.VerseCount(1, 2))
}

/*
TestLoadTable_Invariants rejects tables whose chapter keys fall outside the declared range.
*/
func TestLoadTable_Invariants(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"chapter_beyond_total", `{"1": {"totalChapters": 1, "chapters": {"2": 5}}}`},
		{"chapter_zero", `{"1": {"totalChapters": 1, "chapters": {"0": 5}}}`},
		{"non_numeric_book", `{"gen": {"totalChapters": 1, "chapters": {}}}`},
		{"negative_verses", `{"1": {"totalChapters": 1, "chapters": {"1": -1}}}`},
		{"not_json", `[`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := structure.LoadTable(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

/*
TestDefault_EmbeddedCanon spot-checks the embedded 66-book table.
*/
func TestDefault_EmbeddedCanon(t *testing.T) {
	lookup, err := structure.Default()
	require.NoError(t, err)

	books := lookup.Books()
	require.Len(t, books, 66)
	assert.Equal(t, "Genesis", books[0].Name)
	assert.Equal(t, "Revelation", books[65].Name)

	john, found := lookup.BookIndex("John")
	require.True(t, found)
	assert.Equal(t, 43, john)
	assert.Equal(t, 21, len(lookup.ChaptersFor(john)))
	assert.Equal(t, 36, lookup.VerseCount(john, 3))

	psalms, found := lookup.BookIndex("Psalms")
	require.True(t, found)
	assert.Equal(t, 176, lookup.VerseCount(psalms, 119))

	assert.Equal(t, 31, lookup.VerseCountForName("Genesis", 1))

	table, err := structure.DefaultTable()
	require.NoError(t, err)
	require.Len(t, table, 66)
	assert.Equal(t, 150, table[psalms].TotalChapters)
}

/*
TestDefault_ChaptersContiguous checks that every book yields 1..totalChapters with no gaps.
*/
func TestDefault_ChaptersContiguous(t *testing.T) {
	lookup, err := structure.Default()
	require.NoError(t, err)

	total := 0
	for _, book := range lookup.Books() {
		chapters := lookup.ChaptersFor(book.Index)
		require.Len(t, chapters, book.Chapters, book.Name)

		for i, chapter := range chapters {
			assert.Equal(t, i+1, chapter)
			assert.Positive(t, lookup.VerseCount(book.Index, chapter), "%s %d", book.Name, chapter)
		}

		// Beyond the last chapter there are no verses
		assert.Zero(t, lookup.VerseCount(book.Index, book.Chapters+1))
		total += book.Chapters
	}

	assert.Equal(t, 1189, total)
}

/*
TestLookup_BookIndexSpellings verifies case, OSIS, alias and punctuation tolerant matching.
*/
func TestLookup_BookIndexSpellings(t *testing.T) {
	lookup, err := structure.Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"canonical", "1 Samuel", 9},
		{"lowercase", "1 samuel", 9},
		{"slug", "1-samuel", 9},
		{"compact", "1samuel", 9},
		{"osis", "1Sam", 9},
		{"alias", "Song of Songs", 22},
		{"singular_psalm", "Psalm", 19},
		{"osis_revelation", "Rev", 66},
		{"padded", "  John  ", 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, found := lookup.BookIndex(tt.input)
			require.True(t, found)
			assert.Equal(t, tt.expected, index)
		})
	}
}
