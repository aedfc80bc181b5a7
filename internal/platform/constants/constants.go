// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the fixed values shared by the API server and the
terminal client: server timing, rate limits, the content service defaults and
every storage key lectio reads or writes.

The storage key names match the keys earlier clients persisted, so an existing
store keeps its settings, bookmarks and highlights.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lectio"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderContentType   = "Content-Type"

	// ContentTypeJSON is sent on every outbound request to the content service.
	ContentTypeJSON = "application/json"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "lectio.app"

	// DefaultSessionTTL bounds the lifetime of a reader session token.
	DefaultSessionTTL = 30 * 24 * time.Hour

	// ReaderIdleTTL is how long a session's reader stays in memory without being used.
	ReaderIdleTTL = 30 * time.Minute

	// ReaderSweepInterval is how often idle readers are dropped.
	ReaderSweepInterval = 5 * time.Minute
)

// # Remote Content Service

const (
	// DefaultBibleAPIBaseURL is the content service root; "/bible" is appended per request.
	DefaultBibleAPIBaseURL = "https://apiv2.axsphere.in/api/ax-tracker"

	// DefaultVersePageSize caps the verses requested per chapter. No chapter exceeds it.
	DefaultVersePageSize = 200

	// DefaultWarmConcurrency bounds parallel chapter fetches during a book prefetch.
	DefaultWarmConcurrency = 4
)

// # Cache Taxonomy

const (
	// CacheTTL is the maximum age of a cached remote response.
	CacheTTL = 24 * time.Hour

	// CacheKeyPrefix namespaces TTL-wrapped remote responses.
	CacheKeyPrefix = "bible_cache_"

	// StructureCacheKey holds the full snapshot of the unbounded cache.
	StructureCacheKey = "bible_cache"

	// StructureCacheRecordPrefix namespaces per-key records of the unbounded cache.
	StructureCacheRecordPrefix = "bible_cache:"

	// Logical cache keys for remote responses.
	CacheKeyTranslations = "translations"
	CacheKeyBooksFormat  = "books_%s"
	CacheKeyVersesFormat = "verses_%s_%s_%d"
	CacheKeyWarmedFormat = "warmed_%s_%s"
)

// # Reader Storage Keys

const (
	StorageKeySettings    = "bible_reader_settings"
	StorageKeyHighlights  = "bible_highlights"
	StorageKeyBookmarks   = "bible_bookmarks"
	StorageKeyTranslation = "selectedTranslation"
	StorageKeyBook        = "selectedBook"
	StorageKeyChapter     = "selectedChapter"

	// StorageKeySessionPrefix scopes all keys of a single reader session.
	StorageKeySessionPrefix = "reader:%s:"

	// StorageKeySessionRecord holds the session metadata (passphrase hash, creation time).
	StorageKeySessionRecord = "lectio_session:%s"
)

// # Reading Defaults

const (
	// DefaultBook is selected when no book preference has been persisted.
	DefaultBook = "Genesis"

	// DefaultChapter is selected when no chapter preference has been persisted.
	DefaultChapter = 1
)
