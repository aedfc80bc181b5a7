// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reader holds the state of one reading session: the selected translation,
book and chapter, the verses of that chapter, and the user's settings, highlights
and bookmarks.

# Selection lifecycle

	NoSelection -> BookSelected -> ChapterLoading -> ChapterLoaded | ChapterFailed

Selecting a chapter starts an asynchronous fetch and returns a [Pending]. Every
selection bumps a generation counter; a fetch that completes after a newer
selection is discarded, so verses shown always belong to the current chapter.

# Persistence

Each selection field and each annotation list is written to its own key of the
[kv.Store] on every change. Writes are best effort: a failed write is logged and
the in-memory state stays authoritative.
*/
package reader

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/kv"
	"github.com/taibuivan/lectio/pkg/uuid"
)

// ErrNoTranslations is returned by [Reader.Restore] when nothing is persisted and the
// content service offers no translation.
var ErrNoTranslations = errors.New("reader: no translation available")

// ContentSource is the subset of the remote client a reader depends on.
type ContentSource interface {
	FetchTranslations(ctx context.Context) ([]remote.Translation, error)
	FetchVerses(ctx context.Context, translationID, book string, chapter int) ([]remote.Verse, error)
}

// Deps are the collaborators of a [Reader].
type Deps struct {
	Content ContentSource
	Lookup  *structure.Lookup
	Store   kv.Store
}

// Option configures a [Reader].
type Option func(*Reader)

// WithClock replaces [time.Now] for annotation timestamps.
func WithClock(clock func() time.Time) Option {
	return func(reader *Reader) { reader.clock = clock }
}

// WithLogger sets the reader logger.
func WithLogger(logger *slog.Logger) Option {
	return func(reader *Reader) { reader.logger = logger }
}

// WithIDGenerator replaces the annotation id generator.
func WithIDGenerator(newID func() string) Option {
	return func(reader *Reader) { reader.newID = newID }
}

// # Reader

// Reader is the state machine of one reading session. It is safe for concurrent use.
type Reader struct {
	mu sync.Mutex

	content ContentSource
	lookup  *structure.Lookup
	store   kv.Store
	clock   func() time.Time
	logger  *slog.Logger
	newID   func() string

	loaded      bool
	translation string
	bookIndex   int
	chapter     int
	phase       Phase
	verses      []remote.Verse
	loadErr     error
	generation  uint64

	settings   Settings
	highlights []Highlight
	bookmarks  []Bookmark
}

// NewReader creates a [Reader]. Persisted state is read lazily on first use.
func NewReader(deps Deps, opts ...Option) *Reader {
	reader := &Reader{
		content:  deps.Content,
		lookup:   deps.Lookup,
		store:    deps.Store,
		clock:    time.Now,
		logger:   slog.Default(),
		newID:    uuid.New,
		phase:    PhaseNoSelection,
		settings: DefaultSettings(),
	}

	for _, opt := range opts {
		opt(reader)
	}

	return reader
}

/*
Restore rebuilds the selection from persisted preferences and starts loading its chapter.

Description: Each field falls back independently. The translation falls back to the
first one offered by the content service, the book to Genesis, and the chapter to 1.
A persisted chapter outside the restored book's range also falls back to 1. Every
resolved field is written back, so a partial restore completes the persisted state.

Parameters:
  - ctx: context.Context

Returns:
  - *Pending: The chapter load
  - error: RemoteError when the translation list is needed and cannot be fetched
*/
func (reader *Reader) Restore(ctx context.Context) (*Pending, error) {
	reader.mu.Lock()
	reader.ensureLoaded(ctx)
	translation := reader.readString(ctx, constants.StorageKeyTranslation)
	bookName := reader.readString(ctx, constants.StorageKeyBook)
	chapterText := reader.readString(ctx, constants.StorageKeyChapter)
	reader.mu.Unlock()

	if translation == "" {
		translations, err := reader.content.FetchTranslations(ctx)
		if err != nil {
			return nil, err
		}
		if len(translations) == 0 {
			return nil, ErrNoTranslations
		}
		translation = translations[0].Key()
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()

	index, found := reader.lookup.BookIndex(bookName)
	if !found {
		index, _ = reader.lookup.BookIndex(constants.DefaultBook)
	}

	chapter, err := strconv.Atoi(chapterText)
	if err != nil || !reader.lookup.ValidChapter(index, chapter) {
		chapter = constants.DefaultChapter
	}

	reader.translation = translation
	reader.writeString(ctx, constants.StorageKeyTranslation, translation)

	reader.bookIndex = index
	reader.writeString(ctx, constants.StorageKeyBook, reader.bookName())

	return reader.selectChapterLocked(ctx, chapter), nil
}

// # Selection

// SelectTranslation switches the translation. A selected chapter is reloaded in the
// new translation; otherwise the returned Pending is nil.
func (reader *Reader) SelectTranslation(ctx context.Context, translationID string) (*Pending, error) {
	translationID = strings.TrimSpace(translationID)
	if translationID == "" {
		return nil, invalidInput("translation", "This field is required")
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	reader.translation = translationID
	reader.writeString(ctx, constants.StorageKeyTranslation, translationID)

	if reader.bookIndex == 0 || reader.chapter == 0 {
		return nil, nil
	}
	return reader.selectChapterLocked(ctx, reader.chapter), nil
}

// SelectBook switches the book. The chapter becomes unset, the verse list is cleared,
// any in-flight load is superseded and the persisted chapter is dropped.
func (reader *Reader) SelectBook(ctx context.Context, name string) error {
	index, found := reader.lookup.BookIndex(name)
	if !found {
		return invalidInput("book", "Unknown book")
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	reader.generation++
	reader.bookIndex = index
	reader.chapter = 0
	reader.verses = nil
	reader.loadErr = nil
	reader.phase = PhaseBookSelected

	reader.writeString(ctx, constants.StorageKeyBook, reader.bookName())
	reader.removeKey(ctx, constants.StorageKeyChapter)

	return nil
}

/*
SelectChapter selects a chapter of the current book and starts fetching its verses.

Description: The chapter must lie within the book's chapter range and a translation
must be selected. The state becomes ChapterLoading until the returned [Pending]
settles.

Parameters:
  - ctx: context.Context
  - chapter: int

Returns:
  - *Pending: The chapter load
  - error: VALIDATION_ERROR when the guard fails
*/
func (reader *Reader) SelectChapter(ctx context.Context, chapter int) (*Pending, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	if reader.bookIndex == 0 {
		return nil, invalidInput("book", "Select a book first")
	}
	if reader.translation == "" {
		return nil, invalidInput("translation", "Select a translation first")
	}
	if !reader.lookup.ValidChapter(reader.bookIndex, chapter) {
		return nil, invalidInput("chapter", "Chapter is outside "+reader.bookName())
	}

	return reader.selectChapterLocked(ctx, chapter), nil
}

// NextChapter advances one chapter. At the last chapter, or without a chapter, it is a
// no-op and returns a nil Pending.
func (reader *Reader) NextChapter(ctx context.Context) (*Pending, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()

	if reader.chapter == 0 || !reader.lookup.ValidChapter(reader.bookIndex, reader.chapter+1) {
		return nil, nil
	}
	return reader.selectChapterLocked(ctx, reader.chapter+1), nil
}

// PreviousChapter goes back one chapter. At chapter 1, or without a chapter, it is a
// no-op and returns a nil Pending.
func (reader *Reader) PreviousChapter(ctx context.Context) (*Pending, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()

	if reader.chapter == 0 || !reader.lookup.ValidChapter(reader.bookIndex, reader.chapter-1) {
		return nil, nil
	}
	return reader.selectChapterLocked(ctx, reader.chapter-1), nil
}

// selectChapterLocked starts a chapter load. The caller holds the lock.
func (reader *Reader) selectChapterLocked(ctx context.Context, chapter int) *Pending {
	reader.generation++
	reader.chapter = chapter
	reader.verses = nil
	reader.loadErr = nil
	reader.phase = PhaseChapterLoading
	reader.writeString(ctx, constants.StorageKeyChapter, strconv.Itoa(chapter))

	pending := newPending(reader.generation)
	go reader.load(context.WithoutCancel(ctx), pending, reader.translation, reader.bookName(), chapter)

	return pending
}

// load fetches verses and applies them only if no newer selection happened meanwhile.
func (reader *Reader) load(ctx context.Context, pending *Pending, translation, book string, chapter int) {
	verses, err := reader.content.FetchVerses(ctx, translation, book, chapter)

	reader.mu.Lock()
	if pending.generation != reader.generation {
		reader.mu.Unlock()

		reader.logger.DebugContext(ctx, "stale_chapter_discarded",
			slog.String("book", book),
			slog.Int("chapter", chapter),
			slog.Uint64("generation", pending.generation),
		)
		pending.settle(ErrSuperseded)
		return
	}

	if err != nil {
		reader.phase = PhaseChapterFailed
		reader.loadErr = err
		reader.logger.WarnContext(ctx, "chapter_load_failed",
			slog.String("translation", translation),
			slog.String("book", book),
			slog.Int("chapter", chapter),
			slog.Any("error", err),
		)
	} else {
		reader.phase = PhaseChapterLoaded
		reader.verses = verses
	}
	reader.mu.Unlock()

	pending.settle(err)
}

// # Queries

// Snapshot returns the current state.
func (reader *Reader) Snapshot() View {
	reader.mu.Lock()
	defer reader.mu.Unlock()

	view := View{
		Phase:       reader.phase,
		Translation: reader.translation,
		BookIndex:   reader.bookIndex,
		Chapter:     reader.chapter,
		Chapters:    reader.lookup.ChaptersFor(reader.bookIndex),
		Verses:      slices.Clone(reader.verses),
		Generation:  reader.generation,
	}
	if view.Verses == nil {
		view.Verses = []remote.Verse{}
	}
	if reader.bookIndex != 0 {
		view.Book = reader.bookName()
	}
	if reader.loadErr != nil {
		view.Error = reader.loadErr.Error()
	}
	return view
}

// Search returns the verses of the loaded chapter whose text contains query, ignoring case.
func (reader *Reader) Search(query string) []remote.Verse {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []remote.Verse{}
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()

	results := []remote.Verse{}
	for _, verse := range reader.verses {
		if strings.Contains(strings.ToLower(verse.Text), query) {
			results = append(results, verse)
		}
	}
	return results
}

// Verse returns the loaded verse with the given number.
func (reader *Reader) Verse(number int) (remote.Verse, bool) {
	reader.mu.Lock()
	defer reader.mu.Unlock()

	index := slices.IndexFunc(reader.verses, func(verse remote.Verse) bool { return verse.Verse == number })
	if index < 0 {
		return remote.Verse{}, false
	}
	return reader.verses[index], true
}

// # Settings

// Settings returns the current settings.
func (reader *Reader) Settings(ctx context.Context) Settings {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	return reader.settings
}

// UpdateSettings validates and persists new settings.
func (reader *Reader) UpdateSettings(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.ensureLoaded(ctx)

	reader.settings = settings
	reader.writeJSON(ctx, constants.StorageKeySettings, settings)
	return nil
}

// bookName returns the canonical name of the selected book. The caller holds the lock.
func (reader *Reader) bookName() string {
	name, _ := reader.lookup.BookName(reader.bookIndex)
	return name
}

// invalidInput builds a single-field validation error.
func invalidInput(field, message string) *apperr.AppError {
	return apperr.ValidationError("Invalid selection", apperr.FieldError{Field: field, Message: message})
}
