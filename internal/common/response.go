package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody represents a consistent error payload returned by the API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, map[string]any{
		"error": ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteError maps an error to the canonical error payload. AppError carries
// its own status and code; anything else renders as a 500 INTERNAL.
func WriteError(w http.ResponseWriter, err error) {
	var app *AppError
	if errors.As(err, &app) {
		status := app.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		message := app.Message
		if message == "" {
			message = app.Error()
		}
		JSONError(w, status, app.Code, message, app.Details)
		return
	}
	JSONError(w, http.StatusInternalServerError, CodeInternal, "internal error", nil)
}

// ErrBody converts an error into the payload shape used inside batch results.
func ErrBody(err error) *ErrorBody {
	if err == nil {
		return nil
	}
	var app *AppError
	if errors.As(err, &app) {
		message := app.Message
		if message == "" {
			message = app.Error()
		}
		return &ErrorBody{Code: app.Code, Message: message, Details: app.Details}
	}
	return &ErrorBody{Code: CodeInternal, Message: err.Error()}
}
