// Package apierror defines the domain error taxonomy. Errors are tagged
// variants carrying the HTTP status, a stable machine code, and a
// user-facing message; the centralized responder in pkg/response switches
// on the kind instead of inspecting dynamic types.
package apierror

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	// Err is the wrapped cause, kept for logs only; it never reaches
	// the wire in release mode.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindValidation, Code: "BAD_REQUEST", Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// TokenExpired is still a 401, but carries its own code so clients can
// tell "refresh your token" apart from "your token is garbage".
func TokenExpired() *Error {
	return &Error{Kind: KindUnauthorized, Code: "TOKEN_EXPIRED", Message: "Access token has expired"}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error", Err: err}
}
