// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stacklok/media-readiness-server/internal/store"
)

// maxRequestBodySize bounds JSON request bodies
const maxRequestBodySize = 1 << 20

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// WriteStoreError maps store errors to HTTP status codes: not found is 404,
// validation failures are 400 and everything else is a 500 with a generic message.
func WriteStoreError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrInvalid):
		WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Store operation failed", "action", action, "error", err)
		WriteErrorResponse(w, fmt.Sprintf("Failed to %s", action), http.StatusInternalServerError)
	}
}

// DecodeJSONBody decodes a size-limited JSON body into v, rejecting unknown fields
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
