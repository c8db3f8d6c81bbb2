// Package common defines shared constants and sentinel errors used across
// the filekeeper server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorBadRequest   = errors.New("bad request")
)

// ValidationError is a bad-request failure carrying the message shown to the
// caller. errors.Is(err, ErrorBadRequest) reports true for every instance.
type ValidationError struct {
	msg string
}

// NewValidationError returns a ValidationError with the given caller-facing message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Is(target error) bool { return target == ErrorBadRequest }

// Validation errors returned by the user and file services.
var (
	ErrMissingEmail    = NewValidationError("Missing email")
	ErrMissingPassword = NewValidationError("Missing password")
	ErrAlreadyExist    = NewValidationError("Already exist")

	ErrMissingName        = NewValidationError("Missing name")
	ErrMissingType        = NewValidationError("Missing type")
	ErrMissingData        = NewValidationError("Missing data")
	ErrInvalidData        = NewValidationError("Invalid data")
	ErrParentNotFound     = NewValidationError("Parent not found")
	ErrParentNotFolder    = NewValidationError("Parent is not a folder")
	ErrFolderHasNoContent = NewValidationError("A folder doesn't have content")

	ErrInvalidBody = NewValidationError("Invalid request body")
)
