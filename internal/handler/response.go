package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/equibook/equibook/internal/domain"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status
// code, error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body as JSON into v. It validates that
// the Content-Type header is application/json and returns an error for
// missing/incorrect content type or malformed JSON.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	return nil
}

// MapDomainError maps domain errors to HTTP responses. Every handler
// funnels service errors through here so the status mapping stays in
// one place.
func MapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		WriteError(w, http.StatusBadRequest, err.Error(), "one or more parameters are invalid")
	case errors.Is(err, domain.ErrAlreadyInitialized):
		WriteError(w, http.StatusConflict, err.Error(), "the record already exists")
	case errors.Is(err, domain.ErrExchangeNotInitialized):
		WriteError(w, http.StatusConflict, err.Error(), "the exchange has not been bootstrapped")
	case errors.Is(err, domain.ErrDuplicatePriceLevel):
		WriteError(w, http.StatusConflict, err.Error(), "a level at this price already rests on the book")
	case errors.Is(err, domain.ErrStockNotFound),
		errors.Is(err, domain.ErrHolderNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrWebhookNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "the requested record or level does not exist")
	case errors.Is(err, domain.ErrInsufficientSupply):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "the stock's available supply cannot cover the amount")
	case errors.Is(err, domain.ErrInsufficientBalance):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "the seller's balance cannot cover the amount")
	case errors.Is(err, domain.ErrIPOClosed):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "the primary offering has closed")
	case errors.Is(err, domain.ErrCapacityExceeded):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "the order record is at capacity")
	case errors.Is(err, domain.ErrOverflow):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "the operation would overflow a counter or balance")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
