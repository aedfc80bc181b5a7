// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package structure

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	requestutil "github.com/taibuivan/lectio/internal/platform/request"
	"github.com/taibuivan/lectio/internal/platform/respond"
	"github.com/taibuivan/lectio/internal/platform/validate"
	"github.com/taibuivan/lectio/pkg/convert"
	"github.com/taibuivan/lectio/pkg/pointer"
	"github.com/taibuivan/lectio/pkg/query"
	"github.com/taibuivan/lectio/pkg/slice"
)

// # Handler Implementation

// Handler exposes the structural lookup over HTTP. All endpoints are public and
// never reach the content service.
type Handler struct {
	lookup *Lookup
}

// NewHandler constructs a new structure [Handler].
func NewHandler(lookup *Lookup) *Handler {
	return &Handler{lookup: lookup}
}

// RegisterRoutes attaches structure endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/books", handler.ListBooks)
	api.Get("/books/{book}/chapters", handler.ListChapters)
	api.Get("/books/{book}/chapters/{chapter}", handler.GetChapter)
	api.Get("/references", handler.ResolveReference)
}

// chapterResponse describes the verse range of one chapter.
type chapterResponse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verses  int    `json:"verses"`
}

// referenceResponse is a parsed reference.
type referenceResponse struct {
	OSIS       string `json:"osis"`
	Book       string `json:"book"`
	Chapter    int    `json:"chapter"`
	StartVerse int    `json:"start_verse,omitempty"`
	EndVerse   int    `json:"end_verse,omitempty"`
	Display    string `json:"display"`
}

/*
GET /api/v1/books.

Description: Returns the canonical book list.

Request:
  - testament: string (Optional comma separated filter, e.g. "OT" or "OT,NT")

Response:
  - 200: []Book
*/
func (handler *Handler) ListBooks(writer http.ResponseWriter, request *http.Request) {
	books := handler.lookup.Books()

	if testaments := query.StringSlice(request.URL.Query().Get("testament")); len(testaments) > 0 {
		books = slice.Filter(books, func(book Book) bool {
			return slices.Contains(testaments, book.Testament)
		})
	}

	respond.OK(writer, books)
}

/*
GET /api/v1/books/{book}/chapters.

Description: Returns the valid chapter numbers of a book.

Response:
  - 200: {book, chapters}
  - 404: Book not found
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	book, found := handler.resolveBook(request)
	if !found {
		respond.Error(writer, request, apperr.NotFound("Book"))
		return
	}

	respond.OK(writer, map[string]any{
		"book":     book.Name,
		"chapters": handler.lookup.ChaptersFor(book.Index),
	})
}

/*
GET /api/v1/books/{book}/chapters/{chapter}.

Description: Returns the verse count of a chapter.

Response:
  - 200: chapterResponse
  - 404: Book or chapter not found
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	book, found := handler.resolveBook(request)
	if !found {
		respond.Error(writer, request, apperr.NotFound("Book"))
		return
	}

	chapter := convert.ToInt(requestutil.Param(request, "chapter"))
	if !handler.lookup.ValidChapter(book.Index, chapter) {
		respond.Error(writer, request, apperr.NotFound("Chapter"))
		return
	}

	respond.OK(writer, chapterResponse{
		Book:    book.Name,
		Chapter: chapter,
		Verses:  handler.lookup.VerseCount(book.Index, chapter),
	})
}

/*
GET /api/v1/references?q=John+3:16.

Description: Parses and bounds-checks a free-form reference.

Response:
  - 200: referenceResponse
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) ResolveReference(writer http.ResponseWriter, request *http.Request) {
	text := request.URL.Query().Get("q")

	validator := &validate.Validator{}
	validator.Required("q", text).MaxLen("q", text, 64)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ref, err := handler.lookup.ParseReference(text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	index, _ := handler.lookup.IndexOfOSIS(ref.OSIS)
	name, _ := handler.lookup.BookName(index)

	response := referenceResponse{
		OSIS:    ref.OSIS,
		Book:    name,
		Chapter: ref.Chapter,
		Display: handler.lookup.FormatBibleRef(ref),
	}
	if ref.Verse != nil {
		response.StartVerse = ref.Verse.StartVerse
		response.EndVerse = pointer.Fallback(ref.Verse.EndVerse, ref.Verse.StartVerse)
	}

	respond.OK(writer, response)
}

// resolveBook maps the {book} URL parameter to a catalog entry.
func (handler *Handler) resolveBook(request *http.Request) (Book, bool) {
	index, found := handler.lookup.BookIndex(requestutil.Param(request, "book"))
	if !found {
		return Book{}, false
	}
	return handler.lookup.Book(index)
}
