// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys set by the middleware chain. Read them
// through package ctxutil.
package ctxkey

type key uint8

const (
	// KeyRequestID holds the X-Request-ID of the request.
	KeyRequestID key = iota + 1

	// KeyClaims holds the verified [sec.SessionClaims].
	KeyClaims

	// KeyLogger holds the request-scoped [*log/slog.Logger].
	KeyLogger
)
