package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/rs/zerolog/log"
)

// ErrorBody is the machine-checkable error shape: a short category code
// plus a human-readable message. Internal detail never leaves the server.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an error body
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, code, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// respondServiceError maps a service error onto the taxonomy. Anything
// unmatched is logged and reported as an internal error without detail.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		respondError(w, "unauthenticated", "Not authenticated", http.StatusUnauthorized)
	case errors.Is(err, services.ErrInvalidSession):
		respondError(w, "invalid_session", "Invalid session", http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, "not_found", "Resource not found", http.StatusNotFound)
	case errors.Is(err, services.ErrConflict):
		respondError(w, "conflict", err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, "forbidden", "Not allowed", http.StatusForbidden)
	case errors.Is(err, services.ErrValidation):
		respondError(w, "validation", err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("Internal error")
		respondError(w, "internal", "Internal server error", http.StatusInternalServerError)
	}
}

// decodeBody decodes a JSON request body
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "validation", "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
