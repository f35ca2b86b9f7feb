// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package restutil provides the plumbing shared by the REST handlers,
// including the mapping from the vault error taxonomy to status codes.
package restutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hoard-network/hoard/vault/reverts"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError creates an error with a http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest creates a http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Forbidden creates a http forbidden error.
func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// NotFound creates a http not found error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

// VaultError maps a vault operation error to a http error. Unrecognized
// errors pass through and respond 500.
func VaultError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reverts.ErrNotStaked):
		return NotFound(err)
	case errors.Is(err, reverts.ErrNotOwner),
		errors.Is(err, reverts.ErrCollectionNotWhitelisted):
		return Forbidden(err)
	case errors.Is(err, reverts.ErrAlreadyStaked),
		errors.Is(err, reverts.ErrLockNotElapsed),
		reverts.IsRevertErr(err):
		return HTTPError(err, http.StatusConflict)
	case reverts.IsConfigErr(err):
		return BadRequest(err)
	case reverts.IsCollaboratorErr(err):
		return HTTPError(err, http.StatusBadGateway)
	default:
		return err
	}
}

// HandlerFunc is like http.HandlerFunc but returns an error. If the error
// carries a status code it is responded, otherwise 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts a HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err != nil {
			if he, ok := err.(*httpError); ok {
				if he.cause != nil {
					http.Error(w, he.cause.Error(), he.status)
				} else {
					w.WriteHeader(he.status)
				}
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// JSONContentType is the content type of all JSON responses.
const JSONContentType = "application/json; charset=utf-8"

// ParseJSON parses a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON responds an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M is a shortcut for map[string]any.
type M map[string]any
