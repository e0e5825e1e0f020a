package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrDuplicateKey
	ErrInvalidEnum
	ErrInternal
)

// AppError represents an application error. Field identifies the offending
// field for duplicate-key and invalid-enum failures.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
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

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewDuplicateKey reports a uniqueness violation on a single field. Raw
// storage errors are wrapped, never surfaced.
func NewDuplicateKey(field string, err error) *AppError {
	return &AppError{
		Code:    ErrDuplicateKey,
		Message: fmt.Sprintf("%s already exists", field),
		Field:   field,
		Err:     err,
	}
}

// NewInvalidEnum reports an unrecognized enumerator value for a field.
func NewInvalidEnum(field, value string) *AppError {
	return &AppError{
		Code:    ErrInvalidEnum,
		Message: fmt.Sprintf("invalid %s: %q", field, value),
		Field:   field,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(err error) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "forbidden",
		Err:     err,
	}
}

// Code extracts the ErrorCode from err, or ErrInternal when err is not an
// AppError.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return Code(err) == code
}
