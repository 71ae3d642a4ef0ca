package common

import (
	"errors"
	"net/http"
)

// Error codes shared across the pricing service.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NotFound reports that a catalog entity could not be resolved.
func NotFound(message string, err error) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, err)
}

// InvalidArgument reports a caller-supplied value outside its documented range.
func InvalidArgument(message string, err error) *AppError {
	return NewAppError(CodeInvalidArgument, message, http.StatusBadRequest, err)
}

// IsNotFound checks whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	var app *AppError
	return errors.As(err, &app) && app.Code == CodeNotFound
}

// IsInvalidArgument checks whether err carries the INVALID_ARGUMENT code.
func IsInvalidArgument(err error) bool {
	var app *AppError
	return errors.As(err, &app) && app.Code == CodeInvalidArgument
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
