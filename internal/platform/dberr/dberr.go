// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies errors raised by the networked storage backends.
//
// Absence is never an error in the key-value contract, so the only distinction
// callers need is whether a failure is transient (the backend is unreachable or
// slow) or a genuine fault.
package dberr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/lectio/internal/platform/apperr"
)

// ErrUnavailable marks a transient backend failure.
var ErrUnavailable = errors.New("storage unavailable")

// Wrap annotates err with the failed action and marks transient failures with
// [ErrUnavailable]. It returns nil for a nil err.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if isTransient(err) {
		return fmt.Errorf("%s: %w: %w", action, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// ToAppError maps a wrapped storage error to the client-facing error:
// SERVICE_UNAVAILABLE when transient, INTERNAL_ERROR otherwise.
func ToAppError(err error) *apperr.AppError {
	if errors.Is(err, ErrUnavailable) {
		unavailable := apperr.ServiceUnavailable("Storage is temporarily unavailable")
		unavailable.Cause = err
		return unavailable
	}
	return apperr.Internal(err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
