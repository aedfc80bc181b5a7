// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package structure_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/bible/structure"
)

func newStructureRouter(t *testing.T) http.Handler {
	t.Helper()

	lookup, err := structure.Default()
	require.NoError(t, err)

	router := chi.NewRouter()
	structure.NewHandler(lookup).RegisterRoutes(router)
	return router
}

/*
TestHandler_Endpoints exercises the structural endpoints end to end.
*/
func TestHandler_Endpoints(t *testing.T) {
	router := newStructureRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		check  func(t *testing.T, data json.RawMessage)
	}{
		{"chapters_of_john", "/books/john/chapters", http.StatusOK, func(t *testing.T, data json.RawMessage) {
			var body struct {
				Book     string `json:"book"`
				Chapters []int  `json:"chapters"`
			}
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, "John", body.Book)
			assert.Len(t, body.Chapters, 21)
		}},
		{"verse_count", "/books/Genesis/chapters/1", http.StatusOK, func(t *testing.T, data json.RawMessage) {
			var body struct {
				Verses int `json:"verses"`
			}
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, 31, body.Verses)
		}},
		{"new_testament_books", "/books?testament=NT", http.StatusOK, func(t *testing.T, data json.RawMessage) {
			var books []structure.Book
			require.NoError(t, json.Unmarshal(data, &books))
			assert.Len(t, books, 27)
			assert.Equal(t, "Matthew", books[0].Name)
		}},
		{"reference", "/references?q=Rom+8:28", http.StatusOK, func(t *testing.T, data json.RawMessage) {
			var body struct {
				Display string `json:"display"`
			}
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, "Romans 8:28", body.Display)
		}},
		{"unknown_book", "/books/hezekiah/chapters", http.StatusNotFound, nil},
		{"chapter_out_of_range", "/books/ruth/chapters/5", http.StatusNotFound, nil},
		{"reference_missing_query", "/references", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			if tt.check == nil {
				return
			}

			var envelope struct {
				Data json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			tt.check(t, envelope.Data)
		})
	}
}
