// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"errors"
	"fmt"
)

// # Domain Models

// Translation is a Bible version offered by the content service.
type Translation struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Collection   string `json:"collection"`
	Module       string `json:"module,omitempty"`
}

// Key returns the identifier used in content requests: the module name when the
// service provides one, the document id otherwise.
func (translation Translation) Key() string {
	if translation.Module != "" {
		return translation.Module
	}
	return translation.ID
}

// Verse is a single verse of a chapter.
type Verse struct {
	ID       string `json:"_id"`
	BookName string `json:"book_name"`
	Book     int    `json:"book"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

// Pagination mirrors the paging block of a verse response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Envelope is the wrapper of every content-service response.
type Envelope[T any] struct {
	OK            bool        `json:"ok"`
	Data          T           `json:"data"`
	Count         int         `json:"count,omitempty"`
	TotalChapters int         `json:"totalChapters,omitempty"`
	Pagination    *Pagination `json:"pagination,omitempty"`
}

// # Errors

// ErrNotOK is the cause of a [RemoteError] whose envelope reported ok=false.
var ErrNotOK = errors.New("remote: service reported failure")

// RemoteError is returned by every failed content request: transport failures, non-2xx
// statuses, undecodable bodies and envelopes with ok=false.
type RemoteError struct {
	// Op is the failed operation ("translations", "books", "verses").
	Op string
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	// Message is a short human-readable summary.
	Message string
	// Err is the underlying cause.
	Err error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote: %s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("remote: %s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemote reports whether err carries a [RemoteError].
func IsRemote(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
