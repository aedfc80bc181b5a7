// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/pkg/slice"
)

func TestFilter(t *testing.T) {
	books := []string{"Genesis", "Matthew", "Exodus", "Mark"}
	gospels := slice.Filter(books, func(book string) bool { return book[0] == 'M' })

	assert.Equal(t, []string{"Matthew", "Mark"}, gospels)
	assert.Len(t, books, 4)
	assert.Nil(t, slice.Filter(books, func(string) bool { return false }))
}
