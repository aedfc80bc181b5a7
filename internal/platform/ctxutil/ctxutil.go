// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the per-request values of the API server.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/lectio/internal/platform/ctxkey"
	"github.com/taibuivan/lectio/internal/platform/sec"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, or [slog.Default] outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithClaims attaches the claims of a verified session token.
func WithClaims(ctx context.Context, claims *sec.SessionClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClaims, claims)
}

// Claims returns nil for anonymous requests.
func Claims(ctx context.Context) *sec.SessionClaims {
	claims, _ := ctx.Value(ctxkey.KeyClaims).(*sec.SessionClaims)
	return claims
}
