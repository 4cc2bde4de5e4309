package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vzlrn/cardcasebot/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgCatalogUnavailableError = "Card catalog is not available yet. Please try again shortly."
	ErrMsgNoFreeOpensError        = "No free opens left today. Come back later or open a paid case."
	ErrMsgCardNotFoundError       = "Card not found"
	ErrMsgOfferNotFoundError      = "Offer not found or already accepted"
)

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses and friendly
// messages. RateLimited is an expected condition, not a server failure.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCatalogUnavailable):
		respondError(w, http.StatusServiceUnavailable, ErrMsgCatalogUnavailableError)
	case errors.Is(err, domain.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, ErrMsgNoFreeOpensError)
	case errors.Is(err, domain.ErrCardNotFound):
		respondError(w, http.StatusNotFound, ErrMsgCardNotFoundError)
	case errors.Is(err, domain.ErrOfferNotFound):
		respondError(w, http.StatusNotFound, ErrMsgOfferNotFoundError)
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
	default:
		respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
	}
}
