// Package apperr carries the API error taxonomy. Every precondition
// failure surfaces as one of these kinds before any write happens; storage
// failures wrap as Internal and are never retried here.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Invalid Kind = iota
	Validation
	Unauthorized
	Forbidden
	NotFound
	Conflict
	BadGateway
	Unavailable
	Timeout
	Internal
)

type Error struct {
	Kind   Kind
	Code   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Detail: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) *Error {
	return New(Invalid, "request/invalid", format, args...)
}

func Validationf(format string, args ...any) *Error {
	return New(Validation, "request/unprocessable", format, args...)
}

func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, "auth/unauthorized", format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return New(Forbidden, "auth/forbidden", format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, "resource/not_found", format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, "resource/conflict", format, args...)
}

func BadGatewayf(format string, args ...any) *Error {
	return New(BadGateway, "upstream/bad_gateway", format, args...)
}

func Unavailablef(format string, args ...any) *Error {
	return New(Unavailable, "upstream/unavailable", format, args...)
}

func Timeoutf(format string, args ...any) *Error {
	return New(Timeout, "upstream/timeout", format, args...)
}

// Internalf hides storage details from callers; the cause stays wrapped
// for logs.
func Internalf(err error, format string, args ...any) *Error {
	e := New(Internal, "server/internal", format, args...)
	e.Err = err
	return e
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps an error to a response status. Unknown errors are
// treated as internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case Invalid:
		return http.StatusBadRequest
	case Validation:
		return http.StatusUnprocessableEntity
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case BadGateway:
		return http.StatusBadGateway
	case Unavailable:
		return http.StatusServiceUnavailable
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
