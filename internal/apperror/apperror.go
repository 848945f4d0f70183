// Package apperror defines the closed set of domain error kinds the API can
// surface, and the translation from low-level failures into that set.
//
// THE TAXONOMY:
// Every failure a handler ever renders falls into exactly one of five kinds:
//
//	ErrNotFound     → 404  (fail-if-absent lookup found nothing)
//	ErrValidation   → 400  (bad input shape, malformed identifier)
//	ErrConflict     → 409  (uniqueness constraint violated, e.g. duplicate email)
//	ErrUnauthorized → 401  (credentials don't match, token invalid)
//	anything else   → 500  (unexpected — passed through unchanged)
//
// Lower layers (repository, auth) wrap one of these sentinels into an AppError
// with a user-facing message; the service layer propagates them unchanged; the
// handler layer maps them to HTTP with errors.Is. An error that matches no
// sentinel is by definition unexpected and renders as a generic 500 — its raw
// detail is logged but never sent to the client.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // sentinel identifying the kind
	Message string // Human-readable, safe to show the client
	Field   string // Optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized returns an AppError for failed authentication.
//
// CAUTION ON MESSAGES:
// Login must return the SAME message whether the email is unknown or the
// password is wrong — distinguishable messages let an attacker enumerate
// which emails have accounts. Callers should pass a fixed string for the
// whole login path rather than describing which check failed.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
