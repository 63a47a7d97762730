// Package httpapi exposes the product catalog over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"productservice/internal/product"
)

type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// statusFor maps a service error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, product.ErrInsufficientStock):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, product.ErrVersionConflict):
		return http.StatusConflict, "version_conflict"
	case errors.Is(err, product.ErrInvalidInput), errors.Is(err, product.ErrMalformedEvent):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = ""
	}
	WriteJSONError(w, status, code, details)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
