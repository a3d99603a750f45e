package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrNoStudent    = New("STUDENT_NOT_FOUND", http.StatusNotFound, "student row not found")
	ErrStudentTaken = New("STUDENT_TAKEN", http.StatusConflict, "student already registered")
	ErrAlreadyBound = New("ALREADY_REGISTERED", http.StatusConflict, "chat already bound to a student")
	ErrInvalidPIN   = New("INVALID_PIN", http.StatusUnauthorized, "invalid pin")
	ErrNotOwner     = New("NOT_OWNER", http.StatusForbidden, "pin belongs to another chat")
	ErrNotLoggedIn  = New("NOT_LOGGED_IN", http.StatusUnauthorized, "no enrollment bound to this chat")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrExpired      = New("REGISTRATION_TIMEOUT", http.StatusGone, "registration session expired")
	ErrPINExhausted = New("PIN_EXHAUSTED", http.StatusServiceUnavailable, "pin space exhausted")
	ErrBadSheet     = New("SHEET_INVALID", http.StatusBadGateway, "result sheet structurally invalid")
	ErrTransport    = New("TRANSPORT_ERROR", http.StatusBadGateway, "outbound delivery failed")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return target != nil && e.Code == target.Code
}
