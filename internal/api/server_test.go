// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/api"
	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/respond"
	"github.com/taibuivan/lectio/internal/platform/sec"
)

type echoRoutes struct{}

func (echoRoutes) RegisterRoutes(router chi.Router) {
	router.Get("/books", func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, []string{"Genesis"})
	})
}

func newTestServer(t *testing.T, checks []api.HealthCheck) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewEphemeralTokenService("lectio.test")
	require.NoError(t, err)

	liveness, readiness := api.NewHealthHandlers(checks, logger)
	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "development"}, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Structure: echoRoutes{},
	})
	return server.Handler()
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestServer_Routes(t *testing.T) {
	handler := newTestServer(t, nil)

	books := get(handler, "/api/v1/books")
	require.Equal(t, http.StatusOK, books.Code)
	assert.JSONEq(t, `{"data":["Genesis"]}`, books.Body.String())
	assert.NotEmpty(t, books.Header().Get("X-Request-ID"))

	missing := get(handler, "/api/v1/psalters")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"Route not found","code":"NOT_FOUND"}`, missing.Body.String())

	assert.JSONEq(t, `{"data":{"status":"ok"}}`, get(handler, "/health").Body.String())
}

func TestServer_Readiness(t *testing.T) {
	healthy := newTestServer(t, []api.HealthCheck{
		{Name: "storage", Check: func(context.Context) error { return nil }},
	})
	ready := get(healthy, "/ready")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.JSONEq(t, `{"data":{"status":"ready","checks":[{"name":"storage","ok":true}]}}`, ready.Body.String())

	failing := newTestServer(t, []api.HealthCheck{
		{Name: "storage", Check: func(context.Context) error { return nil }},
		{Name: "redis", Check: func(context.Context) error { return errors.New("redis: ping: connection refused") }},
	})
	degraded := get(failing, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, degraded.Code)
	assert.JSONEq(t, `{"data":{"status":"degraded","checks":[
		{"name":"storage","ok":true},
		{"name":"redis","ok":false,"error":"redis: ping: connection refused"}
	]}}`, degraded.Body.String())
}
