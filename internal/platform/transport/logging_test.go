// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/platform/transport"
)

/*
TestLoggingTransport logs status and redacted URL at debug level.
*/
func TestLoggingTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := transport.NewClient(time.Second, logger)
	response, err := client.Get(server.URL + "/api?translations=true")
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusTeapot, response.StatusCode)
	assert.Contains(t, buffer.String(), `"msg":"outbound_request"`)
	assert.Contains(t, buffer.String(), `"status":418`)
}

/*
TestLoggingTransport_Quiet does not log below debug level.
*/
func TestLoggingTransport_Quiet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {}))
	defer server.Close()

	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelInfo}))

	response, err := transport.NewClient(time.Second, logger).Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Empty(t, buffer.String())
}
