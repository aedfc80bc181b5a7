// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *apperr.AppError
		status int
		code   string
		msg    string
	}{
		{apperr.NotFound("Bookmark"), http.StatusNotFound, apperr.CodeNotFound, "Bookmark not found"},
		{apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited, "Too many requests. Try again in 3s."},
		{apperr.Remote("verses", nil), http.StatusBadGateway, apperr.CodeRemote, "Content service request failed: verses"},
		{apperr.Internal(errors.New("disk full")), http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus)
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.msg, tt.err.Error())
	}
}

func TestAs_WrappedChain(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("remote: fetching verses: %w", apperr.Remote("verses", cause))

	assert.True(t, apperr.IsAppError(wrapped))
	assert.Equal(t, apperr.CodeRemote, apperr.As(wrapped).Code)
	assert.ErrorIs(t, wrapped, cause)

	assert.Nil(t, apperr.As(cause))
	assert.False(t, apperr.IsAppError(nil))
}
