// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/cache"
	"github.com/taibuivan/lectio/internal/platform/kv"
)

type chapterShape struct {
	TotalChapters int `json:"totalChapters"`
}

/*
TestStore_Modes runs the round-trip and clear behaviour in both persistence modes.
*/
func TestStore_Modes(t *testing.T) {
	modes := map[string][]cache.Option{
		"snapshot": nil,
		"per_key":  {cache.WithPerKey()},
	}

	for name, opts := range modes {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			medium := kv.NewMemoryStore()

			store := cache.NewStore(ctx, medium, opts...)
			store.Set(ctx, "1", chapterShape{TotalChapters: 50})
			store.Set(ctx, "2", chapterShape{TotalChapters: 40})

			var got chapterShape
			require.True(t, store.GetInto("1", &got))
			assert.Equal(t, 50, got.TotalChapters)
			assert.True(t, store.Has("2"))
			assert.False(t, store.Has("3"))

			// A fresh store over the same medium sees the same entries
			reloaded := cache.NewStore(ctx, medium, opts...)
			assert.Equal(t, 2, reloaded.Len())
			assert.Equal(t, []string{"1", "2"}, reloaded.Keys())

			reloaded.Delete(ctx, "1")
			assert.Equal(t, 1, cache.NewStore(ctx, medium, opts...).Len())

			reloaded.Clear(ctx)
			reloaded.Clear(ctx)
			assert.Zero(t, reloaded.Len())
			assert.Zero(t, medium.Len())
			assert.Zero(t, cache.NewStore(ctx, medium, opts...).Len())
		})
	}
}

/*
TestStore_SnapshotShape verifies the persisted array of [key, value] pairs.
*/
func TestStore_SnapshotShape(t *testing.T) {
	ctx := context.Background()
	medium := kv.NewMemoryStore()

	store := cache.NewStore(ctx, medium)
	store.Set(ctx, "1", chapterShape{TotalChapters: 50})
	store.Set(ctx, "1", chapterShape{TotalChapters: 51})

	raw, found, err := medium.Get(ctx, "bible_cache")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[["1",{"totalChapters":51}]]`, raw)
}

/*
TestStore_PerKeyRecords verifies that per-key mode writes one record per entry.
*/
func TestStore_PerKeyRecords(t *testing.T) {
	ctx := context.Background()
	medium := kv.NewMemoryStore()

	store := cache.NewStore(ctx, medium, cache.WithPerKey())
	store.Set(ctx, "warmed_kjv_John", true)

	raw, found, err := medium.Get(ctx, "bible_cache:warmed_kjv_John")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "true", raw)

	_, found, err = medium.Get(ctx, "bible_cache")
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestStore_CorruptSnapshot verifies that a damaged snapshot loads as empty.
*/
func TestStore_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	medium := kv.NewMemoryStore()
	require.NoError(t, medium.Set(ctx, "bible_cache", "[[1,"))

	counters := &cache.Counters{}
	store := cache.NewStore(ctx, medium, cache.WithReporter(counters))

	assert.Zero(t, store.Len())
	assert.Equal(t, int64(1), counters.Count(cache.OpDecode))
}

/*
TestStore_WriteFailureKeepsMemory verifies that a failed persist leaves the in-memory value usable.
*/
func TestStore_WriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	counters := &cache.Counters{}

	store := cache.NewStore(ctx, kv.NewMemoryStore(kv.WithQuota(8)), cache.WithReporter(counters))
	store.Set(ctx, "1", chapterShape{TotalChapters: 50})

	assert.True(t, store.Has("1"))
	assert.Equal(t, int64(1), counters.Count(cache.OpWrite))
}
