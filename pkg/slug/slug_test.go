// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"1 Samuel", "1-samuel"},
		{"Song of Solomon", "song-of-solomon"},
		{"  John 3:16 ", "john-3-16"},
		{"Ésaïe", "esaie"},
		{"--Psalms--", "psalms"},
		{"", ""},
		{"…", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slug.From(tt.text), tt.text)
	}
}
