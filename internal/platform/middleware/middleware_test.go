// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/platform/ctxutil"
	"github.com/taibuivan/lectio/internal/platform/middleware"
	"github.com/taibuivan/lectio/internal/platform/sec"
)

type stubVerifier map[string]*sec.SessionClaims

func (verifier stubVerifier) VerifyToken(token string) (*sec.SessionClaims, error) {
	if claims, found := verifier[token]; found {
		return claims, nil
	}
	return nil, errors.New("unknown token")
}

type origins struct {
	development bool
	allowed     []string
}

func (policy origins) IsDevelopment() bool      { return policy.development }
func (policy origins) AllowedOrigins() []string { return policy.allowed }

func sessionEcho(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.Claims(request.Context()); claims != nil {
		_, _ = io.WriteString(writer, claims.SessionID)
	}
}

func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{
		"reader-token":   {SessionID: "s1", Role: string(sec.RoleReader)},
		"operator-token": {SessionID: "operator", Role: string(sec.RoleOperator)},
	}
	open := middleware.Authenticate(verifier)(http.HandlerFunc(sessionEcho))
	guarded := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleOperator)(http.HandlerFunc(sessionEcho)))

	call := func(handler http.Handler, authorization string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/cache", nil)
		if authorization != "" {
			request.Header.Set("Authorization", authorization)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	// Anonymous requests pass through without claims
	anonymous := call(open, "")
	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.Empty(t, anonymous.Body.String())

	assert.Equal(t, "s1", call(open, "Bearer reader-token").Body.String())
	assert.Equal(t, "s1", call(open, "bearer reader-token").Body.String())
	assert.Equal(t, http.StatusUnauthorized, call(open, "Token reader-token").Code)
	assert.Equal(t, http.StatusUnauthorized, call(open, "Bearer forged").Code)

	assert.Equal(t, http.StatusUnauthorized, call(guarded, "").Code)
	assert.Equal(t, http.StatusForbidden, call(guarded, "Bearer reader-token").Code)
	assert.Equal(t, "operator", call(guarded, "Bearer operator-token").Body.String())
}

func TestLimiter(t *testing.T) {
	limiter := middleware.NewLimiter(1, 2)
	handler := limiter.Handler(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {}))

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/translations", nil)
		request.Header.Set("X-Real-IP", "203.0.113.9")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// Another client has its own bucket
	assert.True(t, limiter.Allow("198.51.100.4"))

	assert.Zero(t, limiter.Sweep(time.Hour))
	assert.Equal(t, 2, limiter.Sweep(-time.Second))
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("chapter index out of range")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/reader", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`, recorder.Body.String())
}

func TestRequestIDAndCORS(t *testing.T) {
	handler := middleware.RequestID()(middleware.CORS(origins{allowed: []string{"https://read.example"}})(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = io.WriteString(writer, ctxutil.GetRequestID(request.Context()))
		})))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	request.Header.Set("X-Request-ID", "req-42")
	request.Header.Set("Origin", "https://read.example")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "req-42", recorder.Body.String())
	assert.Equal(t, "req-42", recorder.Header().Get("X-Request-ID"))
	assert.Equal(t, "https://read.example", recorder.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	preflight.Header.Set("Origin", "https://elsewhere.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}
