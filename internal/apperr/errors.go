package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds shared by all services. Handlers map them to HTTP statuses,
// everything else is treated as an internal error.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// New wraps a kind with a user-facing message.
func New(kind error, message string) error {
	return fmt.Errorf("%w: %s", kind, message)
}

// Newf wraps a kind with a formatted user-facing message.
func Newf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Status returns the HTTP status code for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for an error. Internal errors are
// sanitized to a generic message, the detail stays in server logs.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "Une erreur interne est survenue"
	}
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict} {
		if rest, found := strings.CutPrefix(msg, kind.Error()+": "); found {
			return rest
		}
	}
	return msg
}
