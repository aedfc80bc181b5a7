// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devotion

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	requestutil "github.com/taibuivan/lectio/internal/platform/request"
	"github.com/taibuivan/lectio/internal/platform/respond"
	"github.com/taibuivan/lectio/pkg/convert"
)

// Handler exposes the verse of the day and the reading plan.
type Handler struct {
	source *FeedSource
	plan   *Plan
	clock  func() time.Time
}

// NewHandler constructs a devotion [Handler].
func NewHandler(source *FeedSource, plan *Plan, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}
	return &Handler{source: source, plan: plan, clock: clock}
}

// RegisterRoutes attaches devotion endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/daily-verse", handler.DailyVerse)
	api.Get("/plan/sections", handler.PlanSections)
	api.Get("/plan/{day}", handler.PlanDay)
}

/*
GET /api/v1/daily-verse.

Request:
  - date: string (Optional, YYYY-MM-DD, defaults to today)

Response:
  - 200: Verse
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) DailyVerse(writer http.ResponseWriter, request *http.Request) {
	date := handler.clock()
	if raw := request.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid date", apperr.FieldError{Field: "date", Message: "Must be YYYY-MM-DD"}))
			return
		}
		date = parsed
	}

	respond.OK(writer, handler.source.Today(request.Context(), date))
}

// PlanSections handles GET /api/v1/plan/sections.
func (handler *Handler) PlanSections(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.plan.Sections())
}

/*
GET /api/v1/plan/{day}.

Description: Returns the passages and chapters of a day of the one-year plan. "today" resolves
to the current day of year, with day 366 of a leap year mapped to 365.

Response:
  - 200: PlanDay
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) PlanDay(writer http.ResponseWriter, request *http.Request) {
	raw := requestutil.Param(request, "day")

	day := convert.ToInt(raw)
	if raw == "today" {
		day = min(handler.clock().YearDay(), PlanDays)
	}

	plan, err := handler.plan.Day(day)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, plan)
}
