// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/view"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// requestError is a malformed command; it maps to a 4xx without a toast.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{status: http.StatusBadRequest, msg: msg} }

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCommandError maps errors that are not shown as toasts to HTTP statuses.
// It reports false when err was already surfaced to the user.
func writeCommandError(w http.ResponseWriter, err error) bool {
	var reqErr *requestError
	switch {
	case err == nil:
		return false
	case errors.Is(err, app.ErrBusy):
		writeJSON(w, http.StatusConflict, errorBody{Error: "busy", Detail: "another operation is in progress"})
	case errors.Is(err, app.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "session_closed"})
	case errors.As(err, &reqErr):
		writeJSON(w, reqErr.status, errorBody{Error: "bad_request", Detail: reqErr.msg})
	case app.IsValidation(err), app.IsOperation(err):
		return false
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
	}
	return true
}

// fragmentsResponse carries re-rendered regions to the page script.
type fragmentsResponse struct {
	Version   uint64            `json:"version"`
	Fragments map[string]string `json:"fragments"`
}

func renderFragments(c *app.Controller, regions []app.Region) (fragmentsResponse, error) {
	page, err := view.BuildPage(c.Snapshot())
	if err != nil {
		return fragmentsResponse{}, err
	}
	frags, err := view.RenderRegions(page, regions)
	if err != nil {
		return fragmentsResponse{}, err
	}
	return fragmentsResponse{Version: page.Version, Fragments: frags}, nil
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || wantsJSONBody(r)
}
