package services

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeDuplicate    Code = "DUPLICATE"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL"
)

// Error is the typed failure every procedure returns.
// Field is set for validation errors so clients can attribute them to an input.
type Error struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Validation(field, message string) error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

func RateLimited() error {
	return &Error{Code: CodeRateLimited, Message: "too many requests, slow down"}
}

func Duplicate(message string) error {
	return &Error{Code: CodeDuplicate, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func Conflict(message string) error {
	return &Error{Code: CodeConflict, Message: message}
}

// Internal wraps an unexpected collaborator failure.
func Internal(message string, err error) error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf returns the code of err, INTERNAL for untyped errors and "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
