package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Error codes, one per failure class the backend (or the date codec) can produce
const (
	ErrNetwork ErrorCode = iota + 1000
	ErrAuth
	ErrValidation
	ErrConflict
	ErrNotFound
	ErrDateFormat
	ErrCalendarDate
	ErrInternal
)

// FieldIssue is a single field-level validation message from a 400/422 body
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error
type AppError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status,omitempty"`
	Issues  []FieldIssue `json:"issues,omitempty"`
	Err     error        `json:"-"`
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
func NewNetwork(err error) *AppError {
	return &AppError{
		Code:    ErrNetwork,
		Message: "no response from server",
		Err:     err,
	}
}

func NewAuth(err error) *AppError {
	return &AppError{
		Code:    ErrAuth,
		Message: "unauthorized",
		Status:  401,
		Err:     err,
	}
}

func NewValidation(message string, status int, issues []FieldIssue) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Status:  status,
		Issues:  issues,
	}
}

func NewConflict(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s still has dependent records", resource),
		Status:  409,
		Err:     err,
	}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
		Err:     err,
	}
}

func NewDateFormat(token string) *AppError {
	return &AppError{
		Code:    ErrDateFormat,
		Message: fmt.Sprintf("invalid date format: %q", token),
	}
}

func NewCalendarDate(token string) *AppError {
	return &AppError{
		Code:    ErrCalendarDate,
		Message: fmt.Sprintf("no such calendar date: %q", token),
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Err:     err,
	}
}

// CodeOf returns the error code of err, or 0 if err is not an AppError
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

func IsNetwork(err error) bool  { return CodeOf(err) == ErrNetwork }
func IsAuth(err error) bool     { return CodeOf(err) == ErrAuth }
func IsConflict(err error) bool { return CodeOf(err) == ErrConflict }
func IsNotFound(err error) bool { return CodeOf(err) == ErrNotFound }

func IsDateFormat(err error) bool   { return CodeOf(err) == ErrDateFormat }
func IsCalendarDate(err error) bool { return CodeOf(err) == ErrCalendarDate }
