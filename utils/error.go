package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

type ErrorCode string

const (
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrorCodeConflict   ErrorCode = "CONFLICT"
	ErrorCodeInactive   ErrorCode = "INACTIVE_RESOURCE"
	ErrorCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// AppError is the error shape every engine operation returns.
// "missing" (NOT_FOUND) and "deactivated" (INACTIVE_RESOURCE) are never
// collapsed into one code.
type AppError struct {
	Code    ErrorCode                `json:"code"`
	Message string                   `json:"message"`
	Details []map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *AppError) WithDetail(detail map[string]interface{}) *AppError {
	e.Details = append(e.Details, detail)
	return e
}

func ValidationError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrorCodeValidation, format, args...)
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrorCodeNotFound, format, args...)
}

func ConflictError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrorCodeConflict, format, args...)
}

func InactiveResourceError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrorCodeInactive, format, args...)
}

func InternalError(err error) *AppError {
	return &AppError{Code: ErrorCodeInternal, Message: "an internal error occurred"}
}

// AsAppError unwraps err into an *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
