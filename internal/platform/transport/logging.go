// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package transport provides outbound HTTP plumbing shared by upstream clients.
package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport is an [http.RoundTripper] that logs every outbound request at debug
// level with its status and latency. Bodies are never logged.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// RoundTrip implements [http.RoundTripper].
func (transport *LoggingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	base := transport.Base
	if base == nil {
		base = http.DefaultTransport
	}

	logger := transport.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Skip the bookkeeping entirely unless debug logging is on
	if !logger.Enabled(request.Context(), slog.LevelDebug) {
		return base.RoundTrip(request)
	}

	start := time.Now()
	response, err := base.RoundTrip(request)
	if err != nil {
		logger.DebugContext(request.Context(), "outbound_request_failed",
			slog.String("method", request.Method),
			slog.String("url", request.URL.Redacted()),
			slog.Duration("latency", time.Since(start)),
			slog.Any("error", err),
		)
		return response, err
	}

	logger.DebugContext(request.Context(), "outbound_request",
		slog.String("method", request.Method),
		slog.String("url", request.URL.Redacted()),
		slog.Int("status", response.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)
	return response, nil
}

// NewClient returns an [http.Client] with a [LoggingTransport] and the given timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *http.Client {
	return &http.Client{
		Transport: &LoggingTransport{Logger: logger},
		Timeout:   timeout,
	}
}
