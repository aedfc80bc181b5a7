// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination pages the in-memory lists served by the API (bookmarks and
// highlights) with ?page= and ?limit= query parameters.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the index of the first item on the page.
func (params Params) Offset() int {
	return max(params.Page-1, 0) * params.Limit
}

// Meta describes the page that was served.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest reads page and limit. Missing or malformed values fall back to page 1
// and DefaultLimit, and a limit above MaxLimit is replaced by DefaultLimit.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Window returns the page of items selected by params. A page past the end is empty.
func Window[T any](items []T, params Params) ([]T, Meta) {
	start := min(params.Offset(), len(items))
	end := min(start+params.Limit, len(items))
	return items[start:end], NewMeta(params.Page, params.Limit, len(items))
}
