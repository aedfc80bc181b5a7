// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/devotion"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/kv"
)

var fixedNow = time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

// newContentService serves one translation and three verses for any chapter.
func newContentService(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		if query.Get("translations") == "true" {
			fmt.Fprint(writer, `{"ok":true,"data":[{"_id":"t1","name":"King James Version","abbreviation":"KJV","module":"kjv"}]}`)
			return
		}

		chapter, _ := strconv.Atoi(query.Get("chapter"))
		verses := make([]remote.Verse, 0, 3)
		for n := 1; n <= 3; n++ {
			verses = append(verses, remote.Verse{
				ID:       fmt.Sprintf("%s.%d.%d", query.Get("book"), chapter, n),
				BookName: query.Get("book"),
				Chapter:  chapter,
				Verse:    n,
				Text:     fmt.Sprintf("%s %d verse %d of %s", query.Get("book"), chapter, n, query.Get("translation")),
			})
		}
		_ = json.NewEncoder(writer).Encode(map[string]any{"ok": true, "data": verses})
	}))
	t.Cleanup(server.Close)
	return server
}

// testApp is an app whose output, clipboard included, lands in one buffer.
type testApp struct {
	*app
	out *bytes.Buffer
}

func newTestApp(t *testing.T, medium kv.Store, baseURL string) *testApp {
	t.Helper()

	out := &bytes.Buffer{}

	cfg := &config.Config{
		BibleAPIBaseURL:    baseURL,
		BiblePageSize:      200,
		CacheTTL:           24 * time.Hour,
		StructureCacheMode: config.StructureCacheSnapshot,
	}

	session, err := assemble(context.Background(), cfg, out, deps{
		store:      medium,
		httpClient: http.DefaultClient,
		clock:      func() time.Time { return fixedNow },
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return &testApp{app: session, out: out}
}

// exec runs one command line and returns its output.
func exec(t *testing.T, session *testApp, args ...string) (string, error) {
	t.Helper()

	session.out.Reset()
	err := run(args, session.app, session.out)
	return session.out.String(), err
}

/*
TestCLI_ReadingFlow drives a reading session through the command tree.
*/
func TestCLI_ReadingFlow(t *testing.T) {
	service := newContentService(t)
	medium := kv.NewMemoryStore()
	session := newTestApp(t, medium, service.URL)
	ctx := context.Background()

	out, err := exec(t, session, "read", "John", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "John 3 (KJV)")
	assert.Contains(t, out, "John 3 verse 2 of kjv")

	book, _, _ := medium.Get(ctx, "selectedBook")
	chapter, _, _ := medium.Get(ctx, "selectedChapter")
	assert.Equal(t, "John", book)
	assert.Equal(t, "3", chapter)

	out, err = exec(t, session, "next")
	require.NoError(t, err)
	assert.Contains(t, out, "John 4 (KJV)")

	out, err = exec(t, session, "prev")
	require.NoError(t, err)
	assert.Contains(t, out, "John 3 (KJV)")

	out, err = exec(t, session, "search", "VERSE", "2")
	require.NoError(t, err)
	assert.Equal(t, "John 3:2  John 3 verse 2 of kjv\n", out)

	out, err = exec(t, session, "bookmark", "add", "2", "--note", "night visit")
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarked John 3:2")

	out, err = exec(t, session, "bookmark", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "John 3:2")
	assert.Contains(t, out, "night visit")

	_, err = exec(t, session, "highlight", "add", "3", "--color", "red")
	assert.Error(t, err)

	out, err = exec(t, session, "highlight", "add", "3", "--color", "#4caf50")
	require.NoError(t, err)
	assert.Contains(t, out, "Highlighted John 3:3 in #4caf50")

	out, err = exec(t, session, "highlight", "list")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "John.3.3"))

	out, err = exec(t, session, "read")
	require.NoError(t, err)
	assert.Contains(t, out, "  2*  John 3 verse 2 of kjv")
	assert.Contains(t, out, "  3+  John 3 verse 3 of kjv")

	out, err = exec(t, session, "share", "2")
	require.NoError(t, err)
	assert.Equal(t, "\"John 3 verse 2 of kjv\"\nJohn 3:2 (KJV)\n", out)

	// A new process resumes from the same medium.
	resumed := newTestApp(t, medium, service.URL)
	out, err = exec(t, resumed, "read")
	require.NoError(t, err)
	assert.Contains(t, out, "John 3 (KJV)")
}

/*
TestCLI_Settings verifies settings are validated and persisted.
*/
func TestCLI_Settings(t *testing.T) {
	session := newTestApp(t, kv.NewMemoryStore(), newContentService(t).URL)

	_, err := exec(t, session, "settings", "set", "theme", "dark")
	require.NoError(t, err)

	_, err = exec(t, session, "settings", "set", "font-size", "99")
	assert.Error(t, err)

	_, err = exec(t, session, "settings", "set", "font-size", "large")
	assert.Error(t, err)

	out, err := exec(t, session, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "theme             dark")
	assert.Contains(t, out, "font-size         18")

	_, err = exec(t, session, "settings", "reset")
	require.NoError(t, err)
	out, err = exec(t, session, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "theme             light")
}

/*
TestCLI_Devotion covers the plan and the offline verse of the day.
*/
func TestCLI_Devotion(t *testing.T) {
	session := newTestApp(t, kv.NewMemoryStore(), newContentService(t).URL)

	out, err := exec(t, session, "plan", "16")
	require.NoError(t, err)
	assert.Equal(t, "Day 16 (Abrahamic Covenant): Genesis 45-47; Psalm 16\n", out)

	_, err = exec(t, session, "plan", "366")
	assert.Error(t, err)

	date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	out, err = exec(t, session, "daily", "--date", "2026-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, devotion.DailyVerse(date).Reference)
}

/*
TestCLI_GuardsAndMaintenance covers commands that need an open chapter, export and cache clearing.
*/
func TestCLI_GuardsAndMaintenance(t *testing.T) {
	service := newContentService(t)
	medium := kv.NewMemoryStore()
	session := newTestApp(t, medium, service.URL)
	ctx := context.Background()

	_, err := exec(t, session, "bookmark", "remove", "missing")
	assert.Error(t, err)

	out, err := exec(t, session, "read")
	require.NoError(t, err)
	assert.Contains(t, out, "Genesis 1 (KJV)")

	_, err = exec(t, session, "read", "Atlantis")
	assert.Error(t, err)

	_, err = exec(t, session, "read", "Ruth")
	require.NoError(t, err)
	chapter, _, _ := medium.Get(ctx, "selectedChapter")
	assert.Equal(t, "1", chapter)

	_, err = exec(t, session, "bookmark", "add", "1")
	require.NoError(t, err)

	out, err = exec(t, session, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "bookmarks:")
	assert.Contains(t, out, "book: Ruth")

	keys, err := medium.Keys(ctx, "bible_cache_")
	require.NoError(t, err)
	require.NotEmpty(t, keys)

	out, err = exec(t, session, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	keys, err = medium.Keys(ctx, "bible_cache_")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
