package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a reel error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrDeckNotFound   ErrorCode = "DECK_NOT_FOUND"
	ErrDeckEmpty      ErrorCode = "DECK_EMPTY"
	ErrInvalidConfig  ErrorCode = "INVALID_CONFIG"
	ErrInternal       ErrorCode = "INTERNAL"
)

// ReelError represents a structured error with a code and details.
type ReelError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *ReelError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ReelError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates an error for bad command-line input.
func NewInvalidRequest(msg string) *ReelError {
	return &ReelError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewDeckNotFound creates an error for a deck file that cannot be read.
func NewDeckNotFound(path string, err error) *ReelError {
	return &ReelError{
		Code:    ErrDeckNotFound,
		Message: fmt.Sprintf("deck not found: %s", path),
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewDeckEmpty creates an error for a deck with no slides.
func NewDeckEmpty(path string) *ReelError {
	return &ReelError{
		Code:    ErrDeckEmpty,
		Message: fmt.Sprintf("deck has no slides: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewInvalidConfig creates an error for a config value that cannot be used.
func NewInvalidConfig(field, msg string) *ReelError {
	return &ReelError{
		Code:    ErrInvalidConfig,
		Message: fmt.Sprintf("%s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *ReelError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ReelError{
		Code:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error, or anything it wraps, is a ReelError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *ReelError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}
