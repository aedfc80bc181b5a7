// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=3&limit=5", pagination.Params{Page: 3, Limit: 5}},
		{"?page=0&limit=-1", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=two&limit=500", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		request := httptest.NewRequest("GET", "/reader/bookmarks"+tt.query, nil)
		assert.Equal(t, tt.want, pagination.FromRequest(request), tt.query)
	}
}

func TestWindow(t *testing.T) {
	verses := []int{1, 2, 3, 4, 5}

	page, meta := pagination.Window(verses, pagination.Params{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	page, meta = pagination.Window(verses, pagination.Params{Page: 3, Limit: 2})
	assert.Equal(t, []int{5}, page)
	assert.Equal(t, 3, meta.TotalPages)

	page, _ = pagination.Window(verses, pagination.Params{Page: 9, Limit: 2})
	assert.Empty(t, page)
}
