// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/cache"
	"github.com/taibuivan/lectio/internal/platform/kv"
	"github.com/taibuivan/lectio/internal/platform/middleware"
	"github.com/taibuivan/lectio/internal/platform/sec"
)

/*
TestHandler_ClearRequiresOperator verifies stats are public and clearing is operator-only.
*/
func TestHandler_ClearRequiresOperator(t *testing.T) {
	ctx := context.Background()
	medium := kv.NewMemoryStore()
	counters := &cache.Counters{}

	responses := cache.NewTTLCache(medium, cache.WithReporter(counters))
	responses.Put(ctx, "translations", []string{"kjv"})
	responses.Put(ctx, "books_kjv", []string{"Genesis"})

	structureStore := cache.NewStore(ctx, medium, cache.WithReporter(counters))
	structureStore.Set(ctx, "warmed_kjv_John", true)

	tokens, err := sec.NewEphemeralTokenService("lectio.test")
	require.NoError(t, err)
	operator, err := tokens.IssueToken("operator", sec.RoleOperator, time.Hour)
	require.NoError(t, err)
	readerToken, err := tokens.IssueToken("session", sec.RoleReader, time.Hour)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	cache.NewHandler(responses, structureStore, counters).RegisterRoutes(router)

	call := func(method, token string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, "/cache", nil)
		if token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	stats := call(http.MethodGet, "")
	require.Equal(t, http.StatusOK, stats.Code)
	assert.JSONEq(t, `{"data":{"structure_entries":1,"ttl_seconds":86400,"failures":{}}}`, stats.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(http.MethodDelete, "").Code)
	assert.Equal(t, http.StatusForbidden, call(http.MethodDelete, readerToken).Code)

	cleared := call(http.MethodDelete, operator)
	require.Equal(t, http.StatusOK, cleared.Code)

	var body struct {
		Data struct {
			Removed int `json:"removed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(cleared.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Removed)
	assert.Zero(t, structureStore.Len())

	keys, err := medium.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
