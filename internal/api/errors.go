package api

import (
	"errors"
	"net/http"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrTaskTitleEmpty),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// A duplicate task ID means the ID generator misbehaved; that is an
	// internal logic error, not a client problem.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.Is(err, domain.ErrTaskTitleEmpty):
		return "Task title is required"

	default:
		return "An unexpected error occurred"
	}
}
