package apperror

import "errors"

// Every failure this API can produce is a client-input error: bad collection
// name, duplicate registration, wrong password, unknown user or activity.
// None is transient or retryable, and none leaves partial state behind.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // sentinel category, checked with errors.Is
	Message string // Human-readable, user-visible message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing user or activity.
// HTTP handlers map this to 404 Not Found.
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// ValidationFailed reports malformed client input, e.g. an unknown
// collection name. HTTP handlers map this to 400 Bad Request.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a state the operation cannot apply to: duplicate
// registration, duplicate signup, unregistering a non-member, or a full
// activity. HTTP handlers map this to 409 Conflict.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized reports a failed credential check.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
