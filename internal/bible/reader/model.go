// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"errors"

	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/platform/apperr"
)

// # Phases

// Phase is the position of a reader in its selection lifecycle.
type Phase string

const (
	PhaseNoSelection    Phase = "no_selection"
	PhaseBookSelected   Phase = "book_selected"
	PhaseChapterLoading Phase = "chapter_loading"
	PhaseChapterLoaded  Phase = "chapter_loaded"
	PhaseChapterFailed  Phase = "chapter_failed"
)

// ErrSuperseded is returned by [Pending.Wait] when a newer selection replaced the
// one being loaded before its verses arrived.
var ErrSuperseded = errors.New("reader: selection superseded")

// ErrBookmarkNotFound is returned when a bookmark id is unknown.
var ErrBookmarkNotFound = apperr.NotFound("Bookmark")

// # Annotations

// Highlight marks a verse with a translucent color.
type Highlight struct {
	ID        string `json:"id" yaml:"id"`
	VerseID   string `json:"verseId" yaml:"verseId"`
	Color     string `json:"color" yaml:"color"`
	Note      string `json:"note,omitempty" yaml:"note,omitempty"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
}

// Bookmark addresses a verse across translations and sessions.
type Bookmark struct {
	ID          string `json:"id" yaml:"id"`
	Translation string `json:"translation" yaml:"translation"`
	Book        string `json:"book" yaml:"book"`
	Chapter     int    `json:"chapter" yaml:"chapter"`
	Verse       int    `json:"verse" yaml:"verse"`
	Timestamp   int64  `json:"timestamp" yaml:"timestamp"`
	Note        string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Selection is a user-selected text range, identified by the verse that contains it.
type Selection struct {
	VerseID string `json:"verse_id"`
	Text    string `json:"text,omitempty"`
}

// # Views

// View is a consistent snapshot of a reader.
type View struct {
	Phase       Phase          `json:"phase"`
	Translation string         `json:"translation,omitempty"`
	Book        string         `json:"book,omitempty"`
	BookIndex   int            `json:"book_index,omitempty"`
	Chapter     int            `json:"chapter,omitempty"`
	Chapters    []int          `json:"chapters"`
	Verses      []remote.Verse `json:"verses"`
	Error       string         `json:"error,omitempty"`
	Generation  uint64         `json:"generation"`
}

// # Pending Loads

// Pending tracks an asynchronous chapter load.
type Pending struct {
	generation uint64
	done       chan struct{}
	err        error
}

func newPending(generation uint64) *Pending {
	return &Pending{generation: generation, done: make(chan struct{})}
}

// Generation is the selection generation this load belongs to.
func (pending *Pending) Generation() uint64 {
	if pending == nil {
		return 0
	}
	return pending.generation
}

// Done is closed once the load has been applied or discarded.
func (pending *Pending) Done() <-chan struct{} {
	return pending.done
}

// Wait blocks until the load settles. It returns nil when the verses were applied,
// [ErrSuperseded] when a newer selection won, the fetch error otherwise. A nil
// Pending (a no-op navigation) returns nil at once.
func (pending *Pending) Wait(ctx context.Context) error {
	if pending == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-pending.done:
		return pending.err
	}
}

func (pending *Pending) settle(err error) {
	pending.err = err
	close(pending.done)
}
