// Package respond provides shared JSON response utilities for API handlers,
// including the mapping from domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/padelhq/padel-data/internal/auth"
	"github.com/padelhq/padel-data/internal/domain"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteJSONObject marshals a Go value to JSON and writes it.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError sends a structured JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// WriteDomainError maps a domain error to its HTTP equivalent:
// NotFound family -> 404, DataUnavailable -> 503 ("still processing"),
// validation -> 400, duplicates -> 409, auth -> 401, everything else -> 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrMatchNotFound),
		errors.Is(err, domain.ErrAnalysisNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrPlayerInMatchNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())

	case errors.Is(err, domain.ErrDataUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"Hit data is not available for this match. The analysis may not have completed successfully.")

	case errors.Is(err, domain.ErrInvalidSetNumber),
		errors.Is(err, domain.ErrInvalidFileFormat),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())

	case errors.Is(err, domain.ErrPlayerExists):
		WriteError(w, http.StatusConflict, "ALREADY_EXISTS", err.Error())

	case errors.Is(err, auth.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Could not validate credentials")

	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "An unexpected error occurred")
	}
}
