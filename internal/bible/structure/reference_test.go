// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/apperr"
)

/*
TestParseReference_Valid covers the accepted reference forms.
*/
func TestParseReference_Valid(t *testing.T) {
	lookup, err := structure.Default()
	require.NoError(t, err)

	tests := []struct {
		input   string
		osis    string
		chapter int
		start   int
		end     int
		display string
	}{
		{"John 3:16", "John", 3, 16, 0, "John 3:16"},
		{"1 John 4:7-8", "1John", 4, 7, 8, "1 John 4:7-8"},
		{"Ps 23:1-3", "Ps", 23, 1, 3, "Psalms 23:1-3"},
		{"Gen. 1", "Gen", 1, 0, 0, "Genesis 1"},
		{"Ruth", "Ruth", 1, 0, 0, "Ruth 1"},
		{"song of solomon 2:4", "Song", 2, 4, 0, "Song of Solomon 2:4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := lookup.ParseReference(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.osis, ref.OSIS)
			assert.Equal(t, tt.chapter, ref.Chapter)
			if tt.start == 0 {
				assert.Nil(t, ref.Verse)
			} else {
				require.NotNil(t, ref.Verse)
				assert.Equal(t, tt.start, ref.Verse.StartVerse)
				if tt.end == 0 {
					assert.Nil(t, ref.Verse.EndVerse)
				} else {
					require.NotNil(t, ref.Verse.EndVerse)
					assert.Equal(t, tt.end, *ref.Verse.EndVerse)
				}
			}
			assert.Equal(t, tt.display, lookup.FormatBibleRef(ref))
		})
	}
}

/*
TestParseReference_Invalid verifies that out-of-range references are validation errors.
*/
func TestParseReference_Invalid(t *testing.T) {
	lookup, err := structure.Default()
	require.NoError(t, err)

	for _, input := range []string{"", "3:16", "Hezekiah 1:1", "John 22", "John 3:37", "John 3:16-15", "Jude 2"} {
		t.Run(input, func(t *testing.T) {
			_, err := lookup.ParseReference(input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestFormatReference checks the "Book C:V" rendering.
*/
func TestFormatReference(t *testing.T) {
	assert.Equal(t, "John 3:16", structure.FormatReference("John", 3, 16))
	assert.Equal(t, "John 3", structure.FormatReference("John", 3, 0))
}
