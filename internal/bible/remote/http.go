// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/middleware"
	requestutil "github.com/taibuivan/lectio/internal/platform/request"
	"github.com/taibuivan/lectio/internal/platform/respond"
	"github.com/taibuivan/lectio/internal/platform/sec"
	"github.com/taibuivan/lectio/pkg/convert"
)

// # Handler Implementation

// Handler proxies the content service through the response cache.
type Handler struct {
	client *Client
	lookup *structure.Lookup
}

// NewHandler constructs a remote content [Handler].
func NewHandler(client *Client, lookup *structure.Lookup) *Handler {
	return &Handler{client: client, lookup: lookup}
}

// RegisterRoutes attaches content endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/translations", func(router chi.Router) {
		router.Get("/", handler.ListTranslations)
		router.Get("/{translation}/books", handler.ListBooks)
		router.Get("/{translation}/books/{book}/chapters/{chapter}/verses", handler.ListVerses)
		router.With(middleware.RequireRole(sec.RoleOperator)).Post("/{translation}/books/{book}/warm", handler.WarmBook)
	})
}

/*
GET /api/v1/translations.

Description: Lists the translations offered by the content service.

Response:
  - 200: []Translation
  - 502: REMOTE_ERROR
*/
func (handler *Handler) ListTranslations(writer http.ResponseWriter, request *http.Request) {
	translations, err := handler.client.FetchTranslations(request.Context())
	if err != nil {
		respond.Error(writer, request, asAppError(OpTranslations, err))
		return
	}
	respond.OK(writer, translations)
}

/*
GET /api/v1/translations/{translation}/books.

Description: Lists the books of a translation in the service's spelling.

Response:
  - 200: []string
  - 502: REMOTE_ERROR
*/
func (handler *Handler) ListBooks(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.client.FetchBooks(request.Context(), requestutil.Param(request, "translation"))
	if err != nil {
		respond.Error(writer, request, asAppError(OpBooks, err))
		return
	}
	respond.OK(writer, books)
}

/*
GET /api/v1/translations/{translation}/books/{book}/chapters/{chapter}/verses.

Description: Returns the verses of a chapter. The book is resolved to its canonical
name and the chapter is bounds-checked before any request leaves the process.

Request:
  - plain: bool (Optional, strips inline markup)

Response:
  - 200: []Verse
  - 404: Book or chapter not found
  - 502: REMOTE_ERROR
*/
func (handler *Handler) ListVerses(writer http.ResponseWriter, request *http.Request) {
	book, chapter, err := handler.resolveChapter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	verses, err := handler.client.FetchVerses(request.Context(), requestutil.Param(request, "translation"), book.Name, chapter)
	if err != nil {
		respond.Error(writer, request, asAppError(OpVerses, err))
		return
	}

	if convert.ToBool(request.URL.Query().Get("plain")) {
		verses = Plain(verses)
	}
	respond.OK(writer, verses)
}

/*
POST /api/v1/translations/{translation}/books/{book}/warm.

Description: Prefetches every chapter of a book into the response cache.
Operator only.

Response:
  - 200: WarmRecord
  - 401: UNAUTHORIZED
  - 403: FORBIDDEN
  - 404: Book not found
  - 502: REMOTE_ERROR
*/
func (handler *Handler) WarmBook(writer http.ResponseWriter, request *http.Request) {
	index, found := handler.lookup.BookIndex(requestutil.Param(request, "book"))
	if !found {
		respond.Error(writer, request, apperr.NotFound("Book"))
		return
	}
	book, _ := handler.lookup.Book(index)
	translation := requestutil.Param(request, "translation")

	chapters := handler.lookup.ChaptersFor(index)
	if err := handler.client.WarmBook(request.Context(), translation, book.Name, chapters, 0); err != nil {
		respond.Error(writer, request, asAppError(OpVerses, err))
		return
	}

	respond.OK(writer, WarmRecord{Translation: translation, Book: book.Name, Chapters: chapters})
}

func (handler *Handler) resolveChapter(request *http.Request) (structure.Book, int, error) {
	index, found := handler.lookup.BookIndex(requestutil.Param(request, "book"))
	if !found {
		return structure.Book{}, 0, apperr.NotFound("Book")
	}
	book, _ := handler.lookup.Book(index)

	chapter := convert.ToInt(requestutil.Param(request, "chapter"))
	if !handler.lookup.ValidChapter(index, chapter) {
		return structure.Book{}, 0, apperr.NotFound("Chapter")
	}
	return book, chapter, nil
}

// asAppError maps a content failure onto the API error model.
func asAppError(op string, err error) error {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return apperr.Remote(remoteErr.Op, err)
	}
	return apperr.Remote(op, err)
}
