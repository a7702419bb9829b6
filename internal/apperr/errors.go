// Package apperr defines the single tagged error type shared by the service
// and HTTP layers. Every failure surfaced to a client is one of these kinds.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Unauthenticated Kind = iota
	Validation
	Forbidden
	UserNotFound
	NotFound
	Internal
)

// Status maps an error kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Validation:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case UserNotFound, NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Msg }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WithFields attaches per-field validation messages.
func (e *Error) WithFields(fields map[string]string) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Fields: fields}
}

// Fixed user-facing messages asserted by the API test suite.
var (
	ErrUnauthenticated  = New(Unauthenticated, "You are not authenticated")
	ErrForbidden        = New(Forbidden, "You have no permission to make changes to this document")
	ErrUserNotFound     = New(UserNotFound, "User not found")
	ErrDocumentNotFound = New(NotFound, "Document not found")
)

// From coerces any error into an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: Internal, Msg: err.Error()}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
