// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/middleware"
	requestutil "github.com/taibuivan/lectio/internal/platform/request"
	"github.com/taibuivan/lectio/internal/platform/respond"
	"github.com/taibuivan/lectio/internal/platform/validate"
	"github.com/taibuivan/lectio/pkg/pagination"
)

// maxImportBytes bounds the body of an import request.
const maxImportBytes = 1 << 20

// # Handler Implementation

// Handler exposes reading sessions over HTTP.
type Handler struct {
	sessions *SessionService
}

// NewHandler constructs a reader [Handler].
func NewHandler(sessions *SessionService) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes attaches session and reader endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/sessions", func(router chi.Router) {
		router.Post("/", handler.CreateSession)
		router.Post("/operator", handler.OperatorToken)
		router.Post("/{id}/resume", handler.ResumeSession)
	})

	api.Route("/reader", func(router chi.Router) {
		router.Use(middleware.RequireAuth)

		router.Get("/", handler.State)
		router.Post("/restore", handler.Restore)
		router.Put("/translation", handler.SelectTranslation)
		router.Put("/book", handler.SelectBook)
		router.Put("/chapter", handler.SelectChapter)
		router.Post("/next", handler.NextChapter)
		router.Post("/previous", handler.PreviousChapter)
		router.Get("/search", handler.Search)

		router.Get("/settings", handler.GetSettings)
		router.Put("/settings", handler.UpdateSettings)

		router.Get("/bookmarks", handler.ListBookmarks)
		router.Post("/bookmarks", handler.AddBookmark)
		router.Delete("/bookmarks/{id}", handler.RemoveBookmark)
		router.Post("/bookmarks/{id}/open", handler.OpenBookmark)

		router.Get("/highlights", handler.ListHighlights)
		router.Post("/highlights", handler.AddHighlight)
		router.Delete("/highlights/{id}", handler.RemoveHighlight)

		router.Get("/export", handler.Export)
		router.Post("/import", handler.Import)
	})
}

// # Sessions

type passphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

type sessionResponse struct {
	Session   Session `json:"session"`
	Token     string  `json:"token"`
	Protected bool    `json:"protected"`
}

/*
POST /api/v1/sessions.

Description: Starts a reading session. The optional passphrase allows resuming it
from another device.

Request:
  - passphrase: string (Optional)

Response:
  - 201: {session, token, protected}
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) CreateSession(writer http.ResponseWriter, request *http.Request) {
	var input passphraseRequest
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	session, token, err := handler.sessions.Create(request.Context(), input.Passphrase)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session.PassphraseHash = ""
	respond.Created(writer, sessionResponse{Session: session, Token: token, Protected: input.Passphrase != ""})
}

/*
POST /api/v1/sessions/{id}/resume.

Description: Issues a new token for a passphrase-protected session.

Response:
  - 200: {token}
  - 401: Wrong passphrase
  - 403: Session is not protected
  - 404: Unknown session
*/
func (handler *Handler) ResumeSession(writer http.ResponseWriter, request *http.Request) {
	var input passphraseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.sessions.Resume(request.Context(), requestutil.ID(request), input.Passphrase)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"token": token})
}

/*
POST /api/v1/sessions/operator.

Description: Exchanges the operator password for a token allowed to administer the cache.

Response:
  - 200: {token}
  - 401: Wrong password
  - 403: Operator access disabled
*/
func (handler *Handler) OperatorToken(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.sessions.IssueOperatorToken(request.Context(), input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"token": token})
}

// # Selection

/*
GET /api/v1/reader.

Description: Returns the selection, phase and loaded verses of the caller's session.

Response:
  - 200: View
*/
func (handler *Handler) State(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reader.Snapshot())
}

/*
POST /api/v1/reader/restore.

Description: Restores the persisted selection, falling back per field to the first
translation, Genesis and chapter 1, and loads the chapter.

Response:
  - 200: View
  - 502: REMOTE_ERROR
*/
func (handler *Handler) Restore(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := reader.Restore(request.Context())
	handler.settle(writer, request, reader, pending, err)
}

// SelectTranslation handles PUT /api/v1/reader/translation.
func (handler *Handler) SelectTranslation(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Translation string `json:"translation"`
	}
	reader, err := handler.readerWithBody(request, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := reader.SelectTranslation(request.Context(), input.Translation)
	handler.settle(writer, request, reader, pending, err)
}

// SelectBook handles PUT /api/v1/reader/book.
func (handler *Handler) SelectBook(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Book string `json:"book"`
	}
	reader, err := handler.readerWithBody(request, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := reader.SelectBook(request.Context(), input.Book); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reader.Snapshot())
}

/*
PUT /api/v1/reader/chapter.

Description: Selects a chapter of the current book and waits for its verses.

Request:
  - chapter: int

Response:
  - 200: View
  - 400: VALIDATION_ERROR (no book, no translation, chapter out of range)
  - 502: REMOTE_ERROR
*/
func (handler *Handler) SelectChapter(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Chapter int `json:"chapter"`
	}
	reader, err := handler.readerWithBody(request, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := reader.SelectChapter(request.Context(), input.Chapter)
	handler.settle(writer, request, reader, pending, err)
}

// NextChapter handles POST /api/v1/reader/next. At the last chapter the state is unchanged.
func (handler *Handler) NextChapter(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := reader.NextChapter(request.Context())
	handler.settle(writer, request, reader, pending, err)
}

// PreviousChapter handles POST /api/v1/reader/previous. At chapter 1 the state is unchanged.
func (handler *Handler) PreviousChapter(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := reader.PreviousChapter(request.Context())
	handler.settle(writer, request, reader, pending, err)
}

// Search handles GET /api/v1/reader/search?q=.
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reader.Search(request.URL.Query().Get("q")))
}

// # Settings

// GetSettings handles GET /api/v1/reader/settings.
func (handler *Handler) GetSettings(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reader.Settings(request.Context()))
}

/*
PUT /api/v1/reader/settings.

Description: Replaces the reader settings. Every field is validated.

Response:
  - 200: Settings
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) UpdateSettings(writer http.ResponseWriter, request *http.Request) {
	var settings Settings
	reader, err := handler.readerWithBody(request, &settings)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := reader.UpdateSettings(request.Context(), settings); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, settings)
}

// # Bookmarks

/*
GET /api/v1/reader/bookmarks.

Request:
  - page: int (Optional, default 1)
  - limit: int (Optional, default 20, max 100)

Response:
  - 200: []Bookmark in creation order, with pagination meta
*/
func (handler *Handler) ListBookmarks(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginate(writer, request, reader.Bookmarks(request.Context()))
}

/*
POST /api/v1/reader/bookmarks.

Description: Bookmarks a verse of the selected chapter.

Request:
  - verse: int
  - note: string (Optional)

Response:
  - 201: Bookmark
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) AddBookmark(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Verse int    `json:"verse"`
		Note  string `json:"note"`
	}
	reader, err := handler.readerWithBody(request, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := reader.AddBookmark(request.Context(), input.Verse, input.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, bookmark)
}

// RemoveBookmark handles DELETE /api/v1/reader/bookmarks/{id}.
func (handler *Handler) RemoveBookmark(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !reader.RemoveBookmark(request.Context(), requestutil.ID(request)) {
		respond.Error(writer, request, ErrBookmarkNotFound)
		return
	}
	respond.NoContent(writer)
}

// OpenBookmark handles POST /api/v1/reader/bookmarks/{id}/open.
func (handler *Handler) OpenBookmark(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := reader.OpenBookmark(request.Context(), requestutil.ID(request))
	handler.settle(writer, request, reader, pending, err)
}

// # Highlights

// ListHighlights handles GET /api/v1/reader/highlights (paginated like bookmarks).
func (handler *Handler) ListHighlights(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginate(writer, request, reader.Highlights(request.Context()))
}

/*
POST /api/v1/reader/highlights.

Description: Highlights the verse containing a selection. A selection outside the
loaded chapter is ignored and answered with 204.

Request:
  - verse_id: string
  - text: string (Optional)
  - color: string (Optional, "#rrggbb")
  - note: string (Optional)

Response:
  - 201: Highlight
  - 204: Selection ignored
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) AddHighlight(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Selection
		Color string `json:"color"`
		Note  string `json:"note"`
	}
	reader, err := handler.readerWithBody(request, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	highlight, applied, err := reader.AddHighlight(request.Context(), input.Selection, input.Color, input.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !applied {
		respond.NoContent(writer)
		return
	}
	respond.Created(writer, highlight)
}

// RemoveHighlight handles DELETE /api/v1/reader/highlights/{id}.
func (handler *Handler) RemoveHighlight(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !reader.RemoveHighlight(request.Context(), requestutil.ID(request)) {
		respond.Error(writer, request, apperr.NotFound("Highlight"))
		return
	}
	respond.NoContent(writer)
}

// # Export

/*
GET /api/v1/reader/export.

Description: Downloads settings and annotations as JSON or YAML.

Request:
  - format: string (Optional, json | yaml)
*/
func (handler *Handler) Export(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	format := request.URL.Query().Get("format")
	body, err := MarshalExport(reader.Export(request.Context()), format)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contentType := "application/json"
	if format == FormatYAML {
		contentType = "application/yaml"
	}
	writer.Header().Set("Content-Type", contentType)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(body)
}

// Import handles POST /api/v1/reader/import?format=. It replaces settings and annotations.
func (handler *Handler) Import(writer http.ResponseWriter, request *http.Request) {
	reader, err := handler.reader(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(request.Body, maxImportBytes))
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	export, err := UnmarshalExport(body, request.URL.Query().Get("format"))
	if err != nil {
		if !apperr.IsAppError(err) {
			err = apperr.ValidationError(err.Error())
		}
		respond.Error(writer, request, err)
		return
	}

	if err := reader.ImportExport(request.Context(), export); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reader.Export(request.Context()))
}

// # Helpers

// paginate writes one page of items with its metadata.
func paginate[T any](writer http.ResponseWriter, request *http.Request, items []T) {
	page, meta := pagination.Window(items, pagination.FromRequest(request))
	respond.Paginated(writer, page, meta)
}

// reader resolves the session of the authenticated caller.
func (handler *Handler) reader(request *http.Request) (*Reader, error) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		return nil, err
	}
	return handler.sessions.Reader(request.Context(), sessionID)
}

func (handler *Handler) readerWithBody(request *http.Request, target any) (*Reader, error) {
	reader, err := handler.reader(request)
	if err != nil {
		return nil, err
	}
	if err := requestutil.DecodeJSON(request, target); err != nil {
		return nil, err
	}
	return reader, nil
}

// settle waits for a chapter load and responds with the resulting state.
func (handler *Handler) settle(writer http.ResponseWriter, request *http.Request, reader *Reader, pending *Pending, err error) {
	if err != nil {
		respond.Error(writer, request, asAppError(err))
		return
	}

	err = pending.Wait(request.Context())
	switch {
	case err == nil, errors.Is(err, ErrSuperseded):
		respond.OK(writer, reader.Snapshot())
	default:
		respond.Error(writer, request, asAppError(err))
	}
}

func asAppError(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	var remoteErr *remote.RemoteError
	if errors.As(err, &remoteErr) {
		return apperr.Remote(remoteErr.Op, err)
	}
	if errors.Is(err, ErrNoTranslations) {
		return apperr.ServiceUnavailable("No translation is available")
	}
	return apperr.Internal(err)
}
