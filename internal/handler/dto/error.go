package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fieldops/dispatchd/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrTechnicianNotFound):
		return http.StatusNotFound, "TECHNICIAN_NOT_FOUND", message
	case errors.Is(err, domain.ErrTechnicianInactive):
		return http.StatusConflict, "TECHNICIAN_INACTIVE", message

	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, "INVALID_STATE", message
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", message

	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidPriority):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// ErrNoActiveAssignment outside Cancel is a data-consistency fault:
	// assignment invariants no longer hold. Treat as internal.
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
