package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an application error for HTTP mapping.
type Type int

const (
	Internal Type = iota
	Validation
	Conflict
	NotFound
	Auth
)

// Error carries a user-facing message plus an optional wrapped cause.
// Only Message is ever rendered to clients; the cause stays server-side.
type Error struct {
	Type    Type
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error type to an HTTP status code.
func (e *Error) Status() int {
	switch e.Type {
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Auth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NewValidation(message string) *Error {
	return &Error{Type: Validation, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Type: Conflict, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Type: NotFound, Message: message}
}

func NewAuth(message string) *Error {
	return &Error{Type: Auth, Message: message}
}

func NewInternal(err error) *Error {
	return &Error{Type: Internal, Message: "Internal Server Error", Err: err}
}

func IsType(err error, t Type) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Type == t
}

func IsNotFound(err error) bool   { return IsType(err, NotFound) }
func IsValidation(err error) bool { return IsType(err, Validation) }
func IsConflict(err error) bool   { return IsType(err, Conflict) }
func IsAuth(err error) bool       { return IsType(err, Auth) }
