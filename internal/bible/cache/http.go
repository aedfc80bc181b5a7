// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/platform/middleware"
	"github.com/taibuivan/lectio/internal/platform/respond"
	"github.com/taibuivan/lectio/internal/platform/sec"
)

// Handler exposes cache diagnostics.
type Handler struct {
	responses *TTLCache
	structure *Store
	counters  *Counters
}

// NewHandler constructs a cache [Handler]. counters may be nil.
func NewHandler(responses *TTLCache, structure *Store, counters *Counters) *Handler {
	return &Handler{responses: responses, structure: structure, counters: counters}
}

// RegisterRoutes attaches cache endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/cache", func(router chi.Router) {
		router.Get("/", handler.Stats)
		router.With(middleware.RequireRole(sec.RoleOperator)).Delete("/", handler.Clear)
	})
}

type statsResponse struct {
	StructureEntries int              `json:"structure_entries"`
	TTLSeconds       int64            `json:"ttl_seconds"`
	Failures         map[string]int64 `json:"failures"`
}

/*
GET /api/v1/cache.

Description: Reports cache sizes and absorbed storage failures per operation.

Response:
  - 200: statsResponse
*/
func (handler *Handler) Stats(writer http.ResponseWriter, request *http.Request) {
	failures := map[string]int64{}
	if handler.counters != nil {
		failures = handler.counters.Snapshot()
	}

	respond.OK(writer, statsResponse{
		StructureEntries: handler.structure.Len(),
		TTLSeconds:       int64(handler.responses.TTL().Seconds()),
		Failures:         failures,
	})
}

/*
DELETE /api/v1/cache.

Description: Drops every cached response and the structural store.

Response:
  - 200: {"removed": n}
  - 401: No token
  - 403: Not an operator token
*/
func (handler *Handler) Clear(writer http.ResponseWriter, request *http.Request) {
	removed := handler.responses.Purge(request.Context())
	removed += handler.structure.Len()
	handler.structure.Clear(request.Context())

	respond.OK(writer, map[string]int{"removed": removed})
}
