// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote is the client of the content service that provides translations, book
lists and chapter verses.

Every fetch checks the [cache.TTLCache] first. On a miss it issues one GET request, and
concurrent identical misses share that single request. Only successful responses are
cached, so a failure is retried on the next call.

Usage:

	client := remote.NewClient(cfg.BibleAPIBaseURL, responses)
	verses, err := client.FetchVerses(ctx, "kjv", "John", 3)
*/
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/lectio/internal/bible/cache"
	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/kv"
	"github.com/taibuivan/lectio/internal/platform/transport"
)

// Operation names carried by [RemoteError].
const (
	OpTranslations = "translations"
	OpBooks        = "books"
	OpVerses       = "verses"
)

// maxVersePages bounds the pages followed for a single chapter.
const maxVersePages = 10

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 8 << 20

// # Client

// Client fetches content through the response cache.
type Client struct {
	endpoint  string
	http      *http.Client
	responses *cache.TTLCache
	warmed    *cache.Store
	pageSize  int
	logger    *slog.Logger
	flights   singleflight.Group
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.http = httpClient }
}

// WithPageSize overrides the verse page size.
func WithPageSize(size int) Option {
	return func(client *Client) {
		if size > 0 {
			client.pageSize = size
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) { client.logger = logger }
}

// WithWarmStore records prefetched books in store.
func WithWarmStore(store *cache.Store) Option {
	return func(client *Client) { client.warmed = store }
}

/*
NewClient creates a content [Client].

Parameters:
  - baseURL: string (service root; "/bible" is appended)
  - responses: *cache.TTLCache (nil means an in-memory cache)
  - opts: ...Option

Returns:
  - *Client
*/
func NewClient(baseURL string, responses *cache.TTLCache, opts ...Option) *Client {
	client := &Client{
		endpoint:  strings.TrimRight(baseURL, "/") + "/bible",
		responses: responses,
		pageSize:  constants.DefaultVersePageSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.responses == nil {
		client.responses = cache.NewTTLCache(kv.NewMemoryStore())
	}
	if client.http == nil {
		client.http = transport.NewClient(15*time.Second, client.logger)
	}

	return client
}

// # Fetch Operations

// FetchTranslations returns the available translations.
func (client *Client) FetchTranslations(ctx context.Context) ([]Translation, error) {
	params := url.Values{}
	params.Set("translations", "true")

	return fetchCached(ctx, client, OpTranslations, constants.CacheKeyTranslations, func(ctx context.Context) ([]Translation, error) {
		envelope, err := get[[]Translation](ctx, client, OpTranslations, params)
		if err != nil {
			return nil, err
		}
		return envelope.Data, nil
	})
}

// FetchBooks returns the book names offered by a translation, in canonical order.
func (client *Client) FetchBooks(ctx context.Context, translationID string) ([]string, error) {
	params := url.Values{}
	params.Set("translation", translationID)
	params.Set("books", "true")
	params.Set("module", translationID)

	key := fmt.Sprintf(constants.CacheKeyBooksFormat, translationID)
	return fetchCached(ctx, client, OpBooks, key, func(ctx context.Context) ([]string, error) {
		envelope, err := get[[]string](ctx, client, OpBooks, params)
		if err != nil {
			return nil, err
		}
		return envelope.Data, nil
	})
}

/*
FetchVerses returns every verse of a chapter.

Description: The first page is requested with the configured page size. When the
service paginates further, the remaining pages are appended in order.

Parameters:
  - ctx: context.Context
  - translationID: string
  - book: string (book name as the service spells it, e.g. "1 John")
  - chapter: int

Returns:
  - []Verse: Verses in order
  - error: *RemoteError
*/
func (client *Client) FetchVerses(ctx context.Context, translationID, book string, chapter int) ([]Verse, error) {
	key := fmt.Sprintf(constants.CacheKeyVersesFormat, translationID, book, chapter)

	return fetchCached(ctx, client, OpVerses, key, func(ctx context.Context) ([]Verse, error) {
		var verses []Verse

		for page := 1; page <= maxVersePages; page++ {
			params := url.Values{}
			params.Set("translation", translationID)
			params.Set("book", book)
			params.Set("chapter", strconv.Itoa(chapter))
			params.Set("limit", strconv.Itoa(client.pageSize))
			params.Set("page", strconv.Itoa(page))
			params.Set("module", translationID)

			envelope, err := get[[]Verse](ctx, client, OpVerses, params)
			if err != nil {
				return nil, err
			}
			verses = append(verses, envelope.Data...)

			if envelope.Pagination == nil || page >= envelope.Pagination.Pages {
				break
			}
		}

		return verses, nil
	})
}

// InvalidateVerses drops the cached verses of one chapter.
func (client *Client) InvalidateVerses(ctx context.Context, translationID, book string, chapter int) {
	client.responses.Delete(ctx, fmt.Sprintf(constants.CacheKeyVersesFormat, translationID, book, chapter))
}

// # Internals

// fetchCached serves key from the cache or runs load once for all concurrent callers.
// The shared load is detached from any single caller's cancellation; each caller still
// stops waiting when its own context ends.
func fetchCached[T any](ctx context.Context, client *Client, op, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if cached, found := cache.GetTyped[T](ctx, client.responses, key); found {
		return cached, nil
	}

	flight := client.flights.DoChan(key, func() (any, error) {
		detached := context.WithoutCancel(ctx)

		value, err := load(detached)
		if err != nil {
			return nil, err
		}

		client.responses.Put(detached, key, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, &RemoteError{Op: op, Message: "request cancelled", Err: ctx.Err()}
	case result := <-flight:
		if result.Err != nil {
			return zero, result.Err
		}
		if result.Shared {
			client.logger.DebugContext(ctx, "remote_request_coalesced", slog.String("key", key))
		}
		return result.Val.(T), nil
	}
}

// get performs one GET and decodes the envelope. Anything but a 2xx response with
// ok=true becomes a *RemoteError.
func get[T any](ctx context.Context, client *Client, op string, params url.Values) (*Envelope[T], error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &RemoteError{Op: op, Message: "building request", Err: err}
	}
	request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	response, err := client.http.Do(request)
	if err != nil {
		client.logger.WarnContext(ctx, "remote_request_failed", slog.String("op", op), slog.Any("error", err))
		return nil, &RemoteError{Op: op, Message: "transport failure", Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxBodyBytes))
		client.logger.WarnContext(ctx, "remote_request_rejected", slog.String("op", op), slog.Int("status", response.StatusCode))
		return nil, &RemoteError{Op: op, Status: response.StatusCode, Message: http.StatusText(response.StatusCode)}
	}

	var envelope Envelope[T]
	if err := json.NewDecoder(io.LimitReader(response.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		return nil, &RemoteError{Op: op, Status: response.StatusCode, Message: "undecodable response", Err: err}
	}

	if !envelope.OK {
		return nil, &RemoteError{Op: op, Status: response.StatusCode, Message: "service reported failure", Err: ErrNotOK}
	}

	return &envelope, nil
}
