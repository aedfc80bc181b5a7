// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/internal/platform/dberr"
)

/*
TestWrap classifies transient and permanent failures.
*/
func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	tests := []struct {
		name      string
		err       error
		transient bool
		code      string
	}{
		{"deadline", context.DeadlineExceeded, true, "SERVICE_UNAVAILABLE"},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true, "SERVICE_UNAVAILABLE"},
		{"syntax", errors.New("syntax error at or near \"SELEC\""), false, "INTERNAL_ERROR"},
		{"wrapped_deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "postgres_kv_get_failed")

			assert.ErrorIs(t, wrapped, tt.err)
			assert.Equal(t, tt.transient, errors.Is(wrapped, dberr.ErrUnavailable))
			assert.Contains(t, wrapped.Error(), "postgres_kv_get_failed")
			assert.Equal(t, tt.code, dberr.ToAppError(wrapped).Code)
		})
	}
}
