// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package share delivers a verse to the outside world through a cascade of mechanisms.

Mechanisms are tried in order until one succeeds: the native target (a webhook),
then the clipboard (any writer), then a text file. Every attempt is isolated, so an
error or a panic in one mechanism moves the cascade to the next.
*/
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrAllFailed is returned when no mechanism delivered the payload.
var ErrAllFailed = errors.New("share: every mechanism failed")

// Payload is the verse being shared.
type Payload struct {
	Reference   string `json:"reference"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// Message renders the payload as plain text.
func (payload Payload) Message() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%q\n%s", payload.Text, payload.Reference)
	if payload.Translation != "" {
		fmt.Fprintf(&builder, " (%s)", strings.ToUpper(payload.Translation))
	}
	return builder.String()
}

// Mechanism is one way of delivering a payload.
type Mechanism interface {
	Name() string
	Share(ctx context.Context, payload Payload) error
}

// Attempt records a failed mechanism.
type Attempt struct {
	Mechanism string `json:"mechanism"`
	Error     string `json:"error"`
}

// Result reports the mechanism that delivered the payload and every failure before it.
type Result struct {
	Mechanism string    `json:"mechanism,omitempty"`
	Failures  []Attempt `json:"failures"`
}

// # Cascade

// Cascade tries mechanisms in order.
type Cascade struct {
	mechanisms []Mechanism
	logger     *slog.Logger
}

// NewCascade creates a [Cascade]. Nil mechanisms are skipped, so optional ones can be
// passed unconditionally.
func NewCascade(logger *slog.Logger, mechanisms ...Mechanism) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}

	cascade := &Cascade{logger: logger}
	for _, mechanism := range mechanisms {
		if mechanism != nil {
			cascade.mechanisms = append(cascade.mechanisms, mechanism)
		}
	}
	return cascade
}

/*
Share delivers payload through the first mechanism that succeeds.

Parameters:
  - ctx: context.Context
  - payload: Payload

Returns:
  - Result: The winning mechanism and the failed attempts
  - error: ErrAllFailed (joined with every attempt error) when nothing succeeded
*/
func (cascade *Cascade) Share(ctx context.Context, payload Payload) (Result, error) {
	result := Result{Failures: []Attempt{}}
	var errs []error

	for _, mechanism := range cascade.mechanisms {
		err := attempt(ctx, mechanism, payload)
		if err == nil {
			result.Mechanism = mechanism.Name()
			cascade.logger.InfoContext(ctx, "verse_shared",
				slog.String("mechanism", mechanism.Name()),
				slog.String("reference", payload.Reference),
				slog.Int("failed_attempts", len(result.Failures)),
			)
			return result, nil
		}

		cascade.logger.WarnContext(ctx, "share_attempt_failed",
			slog.String("mechanism", mechanism.Name()),
			slog.Any("error", err),
		)
		result.Failures = append(result.Failures, Attempt{Mechanism: mechanism.Name(), Error: err.Error()})
		errs = append(errs, fmt.Errorf("%s: %w", mechanism.Name(), err))
	}

	return result, errors.Join(append([]error{ErrAllFailed}, errs...)...)
}

// attempt runs one mechanism, turning a panic into an error.
func attempt(ctx context.Context, mechanism Mechanism, payload Payload) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("share: %s panicked: %v", mechanism.Name(), recovered)
		}
	}()

	return mechanism.Share(ctx, payload)
}
