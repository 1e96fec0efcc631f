package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a non-positive or otherwise unusable transfer amount.
var ErrInvalidAmount = errors.New("transfer amount must be greater than zero")

// ErrMissingDescription indicates an empty or whitespace-only transfer description.
var ErrMissingDescription = errors.New("transfer description is required")

// ErrConflict indicates that a concurrent writer modified data read by this
// operation before it could commit. The operation was not applied; callers may
// retry it as a whole.
var ErrConflict = errors.New("operation conflicted with a concurrent update")

// ErrInternal indicates an unexpected persistence or infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code so that
// repositories can classify failures without importing transport packages.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
