package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/ytmproxy/internal/shared"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorBody{Error: message, Detail: detail})
}

// writeServiceError maps a facade error onto an HTTP status with a
// structured body. Upstream detail is surfaced; stack traces never are.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, shared.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "authentication required", err.Error())
	case errors.Is(err, shared.ErrNotFoundOrPrivate):
		writeError(w, http.StatusNotFound, "not found or private", err.Error())
	case errors.Is(err, shared.ErrUpstream), errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrAPIRequest):
		writeError(w, http.StatusBadGateway, "upstream error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
