// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/lectio/internal/platform/constants"
)

// WarmRecord notes a book whose chapters were prefetched.
type WarmRecord struct {
	Translation string    `json:"translation"`
	Book        string    `json:"book"`
	Chapters    []int     `json:"chapters"`
	WarmedAt    time.Time `json:"warmed_at"`
}

/*
WarmBook prefetches chapters of a book into the response cache.

Description: At most concurrency chapters are fetched at once. The first failure
cancels the remaining fetches and is returned. On success a [WarmRecord] is stored
in the warm store when one is configured.

Parameters:
  - ctx: context.Context
  - translationID: string
  - book: string
  - chapters: []int
  - concurrency: int (<= 0 uses the default)

Returns:
  - error: The first *RemoteError encountered
*/
func (client *Client) WarmBook(ctx context.Context, translationID, book string, chapters []int, concurrency int) error {
	if concurrency <= 0 {
		concurrency = constants.DefaultWarmConcurrency
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, chapter := range chapters {
		group.Go(func() error {
			_, err := client.FetchVerses(groupCtx, translationID, book, chapter)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	client.logger.InfoContext(ctx, "book_warmed",
		slog.String("translation", translationID),
		slog.String("book", book),
		slog.Int("chapters", len(chapters)),
	)

	if client.warmed != nil {
		client.warmed.Set(ctx, warmKey(translationID, book), WarmRecord{
			Translation: translationID,
			Book:        book,
			Chapters:    chapters,
			WarmedAt:    time.Now().UTC(),
		})
	}
	return nil
}

// Warmed returns the prefetch record of a book, if any.
func (client *Client) Warmed(translationID, book string) (WarmRecord, bool) {
	var record WarmRecord
	if client.warmed == nil || !client.warmed.GetInto(warmKey(translationID, book), &record) {
		return WarmRecord{}, false
	}
	return record, true
}

func warmKey(translationID, book string) string {
	return fmt.Sprintf(constants.CacheKeyWarmedFormat, translationID, book)
}
