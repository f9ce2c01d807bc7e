// internal/pkg/apperror/apperror.go
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error into the API's error taxonomy.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// Error is a classified service error carrying an HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// BadRequest reports missing or invalid client input.
func BadRequest(message string) *Error { return newError(KindBadRequest, message) }

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *Error { return newError(KindUnauthorized, message) }

// Forbidden reports an authenticated principal with insufficient role.
func Forbidden(message string) *Error { return newError(KindForbidden, message) }

// NotFound reports an absent referenced entity.
func NotFound(message string) *Error { return newError(KindNotFound, message) }

// Conflict reports a duplicate unique key.
func Conflict(message string) *Error { return newError(KindConflict, message) }

// Internal wraps an unclassified cause. The cause is kept for server-side
// logging only; the client never sees it.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred", Cause: cause}
}

// From classifies err. An already-classified error passes through unchanged;
// anything else is wrapped as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
