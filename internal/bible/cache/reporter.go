// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Operation names carried by [Failure].
const (
	OpRead   = "read"
	OpDecode = "decode"
	OpWrite  = "write"
	OpRemove = "remove"
	OpLoad   = "load"
)

// Failure describes one swallowed storage failure.
type Failure struct {
	Op  string
	Key string
	Err error
}

// Reporter receives every storage failure the caches absorb. Implementations must be
// safe for concurrent use and must not block.
type Reporter interface {
	Report(ctx context.Context, failure Failure)
}

// # Implementations

// SlogReporter logs failures at warn level.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter wraps logger. A nil logger falls back to [slog.Default].
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger}
}

// Report implements [Reporter].
func (reporter *SlogReporter) Report(ctx context.Context, failure Failure) {
	reporter.logger.WarnContext(ctx, "cache_failure",
		slog.String("op", failure.Op),
		slog.String("key", failure.Key),
		slog.Any("error", failure.Err),
	)
}

// Counters tallies failures per operation. The zero value is ready to use.
type Counters struct {
	counts sync.Map // op -> *atomic.Int64
}

// Report implements [Reporter].
func (counters *Counters) Report(_ context.Context, failure Failure) {
	value, _ := counters.counts.LoadOrStore(failure.Op, new(atomic.Int64))
	value.(*atomic.Int64).Add(1)
}

// Count returns the number of failures recorded for op.
func (counters *Counters) Count(op string) int64 {
	value, found := counters.counts.Load(op)
	if !found {
		return 0
	}
	return value.(*atomic.Int64).Load()
}

// Snapshot returns a copy of every counter.
func (counters *Counters) Snapshot() map[string]int64 {
	snapshot := make(map[string]int64)
	counters.counts.Range(func(key, value any) bool {
		snapshot[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})
	return snapshot
}

// MultiReporter fans a failure out to several reporters.
type MultiReporter []Reporter

// Report implements [Reporter].
func (reporters MultiReporter) Report(ctx context.Context, failure Failure) {
	for _, reporter := range reporters {
		if reporter != nil {
			reporter.Report(ctx, failure)
		}
	}
}

type discardReporter struct{}

func (discardReporter) Report(context.Context, Failure) {}
