package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/marcus/wr/internal/models"
)

// Error code constants for structured API error responses.
const (
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInvalidState     = "invalid_state"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal"
)

// APIError represents a structured error returned by the API.
type APIError struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Violations []models.Violation `json:"violations,omitempty"`
}

// ErrorResponse wraps an APIError for JSON serialization.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error: APIError{Code: code, Message: message},
	}); err != nil {
		slog.Error("write error response", "err", err)
	}
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write json response", "err", err)
	}
}

// writeDomainError maps a domain error onto the HTTP taxonomy. Validation
// errors keep their per-field violations in the response body.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		if encErr := json.NewEncoder(w).Encode(ErrorResponse{
			Error: APIError{
				Code:       ErrCodeValidationFailed,
				Message:    verr.Error(),
				Violations: verr.Violations,
			},
		}); encErr != nil {
			slog.Error("write error response", "err", encErr)
		}
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	case errors.Is(err, models.ErrInvalidState):
		writeError(w, http.StatusConflict, ErrCodeInvalidState, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		logFor(r.Context()).Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
