// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package share

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/bible/reader"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/middleware"
	requestutil "github.com/taibuivan/lectio/internal/platform/request"
	"github.com/taibuivan/lectio/internal/platform/respond"
)

// Handler shares verses of the caller's loaded chapter.
type Handler struct {
	cascade  *Cascade
	sessions *reader.SessionService
}

// NewHandler constructs a share [Handler].
func NewHandler(cascade *Cascade, sessions *reader.SessionService) *Handler {
	return &Handler{cascade: cascade, sessions: sessions}
}

// RegisterRoutes attaches the share endpoint to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.With(middleware.RequireAuth).Post("/reader/share", handler.Share)
}

/*
POST /api/v1/reader/share.

Description: Shares a verse of the loaded chapter through the first mechanism that
succeeds.

Request:
  - verse: int

Response:
  - 200: Result
  - 400: VALIDATION_ERROR (no chapter loaded, unknown verse)
  - 503: SERVICE_UNAVAILABLE (every mechanism failed)
*/
func (handler *Handler) Share(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Verse int `json:"verse"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.sessions.Reader(request.Context(), sessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := PayloadFor(session, input.Verse)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.cascade.Share(request.Context(), payload)
	if err != nil {
		failure := apperr.ServiceUnavailable("The verse could not be shared")
		failure.Cause = err
		respond.Error(writer, request, failure)
		return
	}
	respond.OK(writer, result)
}

// PayloadFor builds the payload of a verse of the reader's loaded chapter.
func PayloadFor(session *reader.Reader, verse int) (Payload, error) {
	view := session.Snapshot()
	if view.Phase != reader.PhaseChapterLoaded {
		return Payload{}, invalidVerse("Load a chapter first")
	}

	loaded, found := session.Verse(verse)
	if !found {
		return Payload{}, invalidVerse("Verse is not part of the loaded chapter")
	}

	return Payload{
		Reference:   structure.FormatReference(view.Book, view.Chapter, loaded.Verse),
		Text:        remote.PlainText(loaded.Text),
		Translation: view.Translation,
	}, nil
}

func invalidVerse(message string) *apperr.AppError {
	return apperr.ValidationError("Invalid share request", apperr.FieldError{Field: "verse", Message: message})
}
