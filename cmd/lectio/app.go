// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/lectio/internal/bible/cache"
	"github.com/taibuivan/lectio/internal/bible/devotion"
	"github.com/taibuivan/lectio/internal/bible/reader"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/share"
	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/kv"
	"github.com/taibuivan/lectio/internal/platform/storage"
	"github.com/taibuivan/lectio/internal/platform/transport"
)

// app holds everything a command needs. One app serves one invocation.
type app struct {
	ctx   context.Context
	out   io.Writer
	clock func() time.Time

	store     kv.Store
	counters  *cache.Counters
	responses *cache.TTLCache
	warmStore *cache.Store

	client  *remote.Client
	lookup  *structure.Lookup
	reader  *reader.Reader
	feed    *devotion.FeedSource
	plan    *devotion.Plan
	cascade *share.Cascade

	closers []func()
}

// deps are the pieces [assemble] cannot derive from configuration alone.
type deps struct {
	store      kv.Store
	httpClient *http.Client
	clock      func() time.Time
	logger     *slog.Logger
}

// newApp opens the configured storage and wires the reader against it.
func newApp(ctx context.Context, cfg *config.Config, out io.Writer, log *slog.Logger) (*app, error) {
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	session, err := assemble(ctx, cfg, out, deps{
		store:      backend.Store,
		httpClient: transport.NewClient(cfg.BibleAPITimeout, log),
		clock:      time.Now,
		logger:     log,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}
	session.closers = append(session.closers, backend.Close)
	return session, nil
}

// assemble builds an app on an already opened medium.
func assemble(ctx context.Context, cfg *config.Config, out io.Writer, d deps) (*app, error) {
	lookup, err := structure.Default()
	if err != nil {
		return nil, err
	}

	counters := &cache.Counters{}
	cacheOptions := []cache.Option{
		cache.WithTTL(cfg.CacheTTL),
		cache.WithClock(d.clock),
		cache.WithReporter(cache.MultiReporter{counters, cache.NewSlogReporter(d.logger)}),
	}
	if cfg.StructureCacheMode == config.StructureCachePerKey {
		cacheOptions = append(cacheOptions, cache.WithPerKey())
	}

	responses := cache.NewTTLCache(d.store, cacheOptions...)
	warmStore := cache.NewStore(ctx, d.store, cacheOptions...)

	client := remote.NewClient(cfg.BibleAPIBaseURL, responses,
		remote.WithHTTPClient(d.httpClient),
		remote.WithPageSize(cfg.BiblePageSize),
		remote.WithLogger(d.logger),
		remote.WithWarmStore(warmStore),
	)

	session := reader.NewReader(
		reader.Deps{Content: client, Lookup: lookup, Store: d.store},
		reader.WithClock(d.clock),
		reader.WithLogger(d.logger),
	)

	// The terminal stands in for the clipboard.
	cascade := share.NewCascade(d.logger,
		share.NewWebhook(cfg.ShareWebhookURL, d.httpClient),
		share.NewClipboard(out),
		share.NewFile(cfg.ShareDir, d.clock),
	)

	plan, err := devotion.NewPlan(lookup)
	if err != nil {
		return nil, err
	}

	return &app{
		ctx:       ctx,
		out:       out,
		clock:     d.clock,
		store:     d.store,
		counters:  counters,
		responses: responses,
		warmStore: warmStore,
		client:    client,
		lookup:    lookup,
		reader:    session,
		feed:      devotion.NewFeedSource(cfg.DailyVerseFeedURL, d.httpClient, responses, lookup, d.logger),
		plan:      plan,
		cascade:   cascade,
	}, nil
}

// Close releases the storage backend.
func (session *app) Close() {
	for _, closer := range session.closers {
		closer()
	}
	session.closers = nil
}

// # Reading Helpers

// restore reopens the persisted position and waits for its chapter.
func (session *app) restore() error {
	pending, err := session.reader.Restore(session.ctx)
	if err != nil {
		return err
	}
	return session.settle(pending, nil)
}

// settle waits for a chapter load and reports its failure.
func (session *app) settle(pending *reader.Pending, err error) error {
	if err != nil {
		return err
	}
	if err := pending.Wait(session.ctx); err != nil && !errors.Is(err, reader.ErrSuperseded) {
		return err
	}
	return nil
}

// loaded restores the position and requires an open chapter.
func (session *app) loaded() (reader.View, error) {
	if err := session.restore(); err != nil {
		return reader.View{}, err
	}

	view := session.reader.Snapshot()
	if view.Phase != reader.PhaseChapterLoaded {
		return view, errors.New("no chapter is open; run `lectio read <book> <chapter>` first")
	}
	return view, nil
}

// # Output

func (session *app) printf(format string, args ...any) {
	fmt.Fprintf(session.out, format, args...)
}

// printChapter renders the open chapter with the current settings.
func (session *app) printChapter() {
	view := session.reader.Snapshot()
	switch view.Phase {
	case reader.PhaseChapterLoaded:
	case reader.PhaseChapterFailed:
		session.printf("%s %d could not be loaded: %s\n", view.Book, view.Chapter, view.Error)
		return
	default:
		session.printf("Nothing to read yet.\n")
		return
	}

	settings := session.reader.Settings(session.ctx)
	session.printf("%s %d (%s)\n\n", view.Book, view.Chapter, strings.ToUpper(view.Translation))

	for _, verse := range view.Verses {
		marker := ""
		if session.reader.IsBookmarked(session.ctx, view.Translation, view.Book, view.Chapter, verse.Verse) {
			marker = "*"
		}
		if _, highlighted := session.reader.HighlightFor(session.ctx, verse.ID); highlighted {
			marker += "+"
		}

		text := remote.PlainText(verse.Text)
		if settings.ShowVerseNumbers {
			session.printf("%3d%-2s %s\n", verse.Verse, marker, text)
		} else {
			session.printf("%s%s\n", marker, text)
		}
	}
}
