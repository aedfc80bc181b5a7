// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/lectio/internal/platform/respond"
)

const readinessTimeout = 2 * time.Second

// HealthCheck is one dependency probed by /ready, such as the storage backend.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type checkResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers returns the /health and /ready handlers. /health answers while
// the process runs. /ready probes every check in parallel and answers 503 with
// "degraded" when any of them fails.
func NewHealthHandlers(checks []HealthCheck, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{"status": "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		results := make([]checkResult, len(checks))

		var group errgroup.Group
		for i, check := range checks {
			group.Go(func() error {
				results[i] = probe(request.Context(), check)
				return nil
			})
		}
		_ = group.Wait()

		status, code := "ready", http.StatusOK
		for _, result := range results {
			if !result.OK {
				status, code = "degraded", http.StatusServiceUnavailable
				logger.ErrorContext(request.Context(), "readiness_check_failed",
					slog.String("dependency", result.Name),
					slog.String("error", result.Error),
				)
			}
		}

		respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
			"status": status,
			"checks": results,
		}})
	}

	return liveness, readiness
}

func probe(ctx context.Context, check HealthCheck) checkResult {
	if check.Check == nil {
		return checkResult{Name: check.Name, OK: true}
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if err := check.Check(ctx); err != nil {
		return checkResult{Name: check.Name, Error: err.Error()}
	}
	return checkResult{Name: check.Name, OK: true}
}
