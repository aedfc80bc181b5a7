// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package share_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/reader"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/share"
	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/kv"
)

var john316 = share.Payload{
	Reference:   "John 3:16",
	Text:        "For God so loved the world",
	Translation: "kjv",
}

type panicking struct{}

func (panicking) Name() string { return "broken" }

func (panicking) Share(context.Context, share.Payload) error { panic("no display") }

type refusing struct{}

func (refusing) Name() string { return "refusing" }

func (refusing) Share(context.Context, share.Payload) error { return errors.New("permission denied") }

/*
TestPayload_Message checks the plain-text rendering.
*/
func TestPayload_Message(t *testing.T) {
	assert.Equal(t, "\"For God so loved the world\"\nJohn 3:16 (KJV)", john316.Message())

	bare := share.Payload{Reference: "Psalms 23:1", Text: "The Lord is my shepherd"}
	assert.Equal(t, "\"The Lord is my shepherd\"\nPsalms 23:1", bare.Message())
}

/*
TestCascade_FallsThrough verifies the cascade order and the failure report.
*/
func TestCascade_FallsThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	var clipboard bytes.Buffer
	cascade := share.NewCascade(nil,
		share.NewWebhook(server.URL, server.Client()),
		share.NewClipboard(&clipboard),
		share.NewFile(t.TempDir(), nil),
	)

	result, err := cascade.Share(context.Background(), john316)
	require.NoError(t, err)
	assert.Equal(t, share.NameClipboard, result.Mechanism)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, share.NameWebhook, result.Failures[0].Mechanism)
	assert.Contains(t, result.Failures[0].Error, "status 500")
	assert.Equal(t, john316.Message()+"\n", clipboard.String())
}

/*
TestCascade_PanicIsContained verifies a panicking mechanism is skipped.
*/
func TestCascade_PanicIsContained(t *testing.T) {
	dir := t.TempDir()
	clock := func() time.Time { return time.UnixMilli(1767225600000) }

	cascade := share.NewCascade(nil, panicking{}, share.NewFile(dir, clock))

	result, err := cascade.Share(context.Background(), john316)
	require.NoError(t, err)
	assert.Equal(t, share.NameFile, result.Mechanism)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Error, "panicked")

	content, err := os.ReadFile(filepath.Join(dir, "john-3-16-1767225600000.txt"))
	require.NoError(t, err)
	assert.Equal(t, john316.Message()+"\n", string(content))
}

/*
TestCascade_AllFail verifies the joined error when nothing succeeds.
*/
func TestCascade_AllFail(t *testing.T) {
	cascade := share.NewCascade(nil, share.NewWebhook("", nil), refusing{}, panicking{}, share.NewClipboard(nil))

	result, err := cascade.Share(context.Background(), john316)
	require.Error(t, err)
	assert.ErrorIs(t, err, share.ErrAllFailed)
	assert.Empty(t, result.Mechanism)
	assert.Len(t, result.Failures, 2)
	assert.Contains(t, err.Error(), "permission denied")
}

/*
TestWebhook_Delivers verifies the webhook request body.
*/
func TestWebhook_Delivers(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&received))
		writer.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	result, err := share.NewCascade(nil, share.NewWebhook(server.URL, server.Client())).Share(context.Background(), john316)
	require.NoError(t, err)
	assert.Equal(t, share.NameWebhook, result.Mechanism)
	assert.Empty(t, result.Failures)

	assert.Equal(t, "John 3:16", received["reference"])
	assert.Equal(t, "kjv", received["translation"])
	assert.Equal(t, john316.Message(), received["message"])
}

// verseSource serves one chapter with markup in its text.
type verseSource struct{}

func (verseSource) FetchTranslations(context.Context) ([]remote.Translation, error) {
	return []remote.Translation{{ID: "kjv"}}, nil
}

func (verseSource) FetchVerses(_ context.Context, _, book string, chapter int) ([]remote.Verse, error) {
	return []remote.Verse{
		{ID: "v16", BookName: book, Chapter: chapter, Verse: 16, Text: "For God so loved the world<sup>a</sup>"},
	}, nil
}

/*
TestPayloadFor verifies payloads are built from the loaded chapter only.
*/
func TestPayloadFor(t *testing.T) {
	ctx := context.Background()
	lookup, err := structure.Default()
	require.NoError(t, err)

	session := reader.NewReader(reader.Deps{Content: verseSource{}, Lookup: lookup, Store: kv.NewMemoryStore()})

	_, err = share.PayloadFor(session, 16)
	assert.Error(t, err)

	_, err = session.SelectTranslation(ctx, "kjv")
	require.NoError(t, err)
	require.NoError(t, session.SelectBook(ctx, "John"))
	pending, err := session.SelectChapter(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, pending.Wait(ctx))

	payload, err := share.PayloadFor(session, 16)
	require.NoError(t, err)
	assert.Equal(t, john316, payload)

	_, err = share.PayloadFor(session, 17)
	assert.Error(t, err)
}
