// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/taibuivan/lectio/internal/bible/cache"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/structure"
)

// dailyKeyFormat is the logical cache key of a feed verse for one date.
const dailyKeyFormat = "daily_%s"

// errEmptyFeed is returned when a feed has no usable entry.
var errEmptyFeed = errors.New("devotion: feed has no entries")

// FeedSource resolves the verse of the day from an RSS or Atom feed.
type FeedSource struct {
	url       string
	client    *http.Client
	responses *cache.TTLCache
	lookup    *structure.Lookup
	logger    *slog.Logger
}

// NewFeedSource creates a [FeedSource]. An empty url makes it serve the rotation only.
// responses may be nil, in which case every call reaches the feed.
func NewFeedSource(url string, client *http.Client, responses *cache.TTLCache, lookup *structure.Lookup, logger *slog.Logger) *FeedSource {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedSource{
		url:       url,
		client:    client,
		responses: responses,
		lookup:    lookup,
		logger:    logger,
	}
}

/*
Today returns the verse of the day for date.

Description: The first feed entry becomes the verse: its title is the reference
(normalized to the canonical book name when it parses) and its description the text,
stripped of markup. Successful feed verses are cached per date. Any failure falls back
to [DailyVerse].

Parameters:
  - ctx: context.Context
  - date: time.Time

Returns:
  - Verse: The verse of the day, never empty
*/
func (source *FeedSource) Today(ctx context.Context, date time.Time) Verse {
	if source.url == "" {
		return DailyVerse(date)
	}

	day := date.Format(time.DateOnly)
	key := fmt.Sprintf(dailyKeyFormat, day)

	if source.responses != nil {
		if verse, found := cache.GetTyped[Verse](ctx, source.responses, key); found {
			return verse
		}
	}

	verse, err := source.fetch(ctx)
	if err != nil {
		source.logger.WarnContext(ctx, "daily_verse_feed_failed", slog.String("url", source.url), slog.Any("error", err))
		return DailyVerse(date)
	}
	verse.Date = day

	if source.responses != nil {
		source.responses.Put(ctx, key, verse)
	}
	return verse
}

func (source *FeedSource) fetch(ctx context.Context) (Verse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, source.url, nil)
	if err != nil {
		return Verse{}, fmt.Errorf("devotion: building feed request: %w", err)
	}

	response, err := source.client.Do(request)
	if err != nil {
		return Verse{}, fmt.Errorf("devotion: fetching feed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Verse{}, fmt.Errorf("devotion: feed returned status %d", response.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(response.Body)
	if err != nil {
		return Verse{}, fmt.Errorf("devotion: parsing feed: %w", err)
	}

	for _, item := range feed.Items {
		text := item.Description
		if text == "" {
			text = item.Content
		}

		reference := strings.TrimSpace(item.Title)
		text = remote.PlainText(text)
		if reference == "" || text == "" {
			continue
		}

		if source.lookup != nil {
			if ref, err := source.lookup.ParseReference(reference); err == nil {
				reference = source.lookup.FormatBibleRef(ref)
			}
		}

		return Verse{Reference: reference, Text: strings.Trim(text, `"“”`), Source: SourceFeed}, nil
	}

	return Verse{}, errEmptyFeed
}
