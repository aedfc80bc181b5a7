// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads what handlers need from a request: the JSON body, chi
URL parameters and the session named by the bearer token.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/ctxutil"
	"github.com/taibuivan/lectio/internal/platform/validate"
)

// DecodeJSON decodes the body into target. Any decoding failure is reported as
// validate.ErrInvalidJSON.
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns a named chi URL parameter such as {book} or {chapter}.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// ID returns the {id} URL parameter of session, bookmark and highlight routes.
func ID(request *http.Request) string {
	return chi.URLParam(request, "id")
}

/*
RequiredSessionID returns the session named by the verified token.

Returns:
  - string: Session id
  - error: apperr.Unauthorized when the request carries no token
*/
func RequiredSessionID(request *http.Request) (string, error) {
	claims := ctxutil.Claims(request.Context())
	if claims == nil {
		return "", apperr.Unauthorized("Start or resume a session first")
	}
	return claims.SessionID, nil
}
