package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to the views.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeHTTP         = "HTTP_ERROR"
	CodeNetwork      = "NETWORK_ERROR"
	CodeDecode       = "DECODE_ERROR"
	CodeValidation   = "VALIDATION"
	CodeNotFound     = "NOT_FOUND"
	CodeSessionStore = "SESSION_STORE"
	CodeSuperseded   = "SUPERSEDED"
)

// AppError is a structured error carrying the message a view shows inline.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error
}

// Error returns the surfaced message. The code is kept out of it so that
// a backend body like "Invalid password" reaches the user verbatim.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Session (401 transition) ----

func ErrUnauthorized() *AppError {
	return New(CodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
}

// ---- Backend responses ----

// ErrHTTP builds the error for a non-2xx, non-401 response. The body text is
// the message when present.
func ErrHTTP(status int, body string) *AppError {
	if body == "" {
		body = fmt.Sprintf("HTTP Error: %d", status)
	}
	return New(CodeHTTP, body, status)
}

func ErrNetwork(err error) *AppError {
	return Wrap(CodeNetwork, "request failed", http.StatusBadGateway, err)
}

func ErrDecode(err error) *AppError {
	return Wrap(CodeDecode, "malformed response body", http.StatusBadGateway, err)
}

// ---- Local ----

func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrAccountNotFound(id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("account %s not found", id), http.StatusNotFound)
}

func ErrSessionStore(err error) *AppError {
	return Wrap(CodeSessionStore, "session storage failure", http.StatusInternalServerError, err)
}

func ErrSuperseded() *AppError {
	return New(CodeSuperseded, "request superseded by a newer one", http.StatusConflict)
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsUnauthorized reports whether err is the 401 transition error.
func IsUnauthorized(err error) bool {
	return HasCode(err, CodeUnauthorized)
}

// IsSuperseded reports whether err marks a discarded, superseded load.
func IsSuperseded(err error) bool {
	return HasCode(err, CodeSuperseded)
}
