package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps domain errors onto the HTTP status taxonomy.
// Unknown errors become an opaque 500; details stay in the server logs.
func writeServiceError(w http.ResponseWriter, err error) {
	if ve, ok := core.AsValidationError(err); ok {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}

	switch {
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrMissingEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ledger.ErrNotFound):
		// A token naming a user that no longer exists is a stale session.
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
