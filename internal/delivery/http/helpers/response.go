package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventplanner/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeVenueConflict   = "venue_conflict"
	ErrCodeHasDependencies = "has_dependencies"
	ErrCodeInternalError   = "internal_error"
)

const internalErrorMessage = "internal server error"

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess writes statusCode and an envelope carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError writes statusCode and an envelope carrying the error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteServiceError maps a service error to its HTTP status. notFound is the message used
// for domain.ErrNotFound. Unclassified errors are logged and answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicate):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, domain.ErrDuplicate.Error())
	case errors.Is(err, domain.ErrVenueConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeVenueConflict, domain.ErrVenueConflict.Error())
	case errors.Is(err, domain.ErrHasDependencies):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeHasDependencies, domain.ErrHasDependencies.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrRejected), errors.Is(err, domain.ErrInvalidInput):
		logger.WarnContext(r.Context(), "write rejected", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "request rejected: invalid data")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, internalErrorMessage)
	}
}
