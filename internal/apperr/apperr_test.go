package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndCode(t *testing.T) {
	cases := []struct {
		err    *Error
		kind   Kind
		code   string
		status int
	}{
		{Invalidf("x"), Invalid, "request/invalid", http.StatusBadRequest},
		{Validationf("x"), Validation, "request/unprocessable", http.StatusUnprocessableEntity},
		{Unauthorizedf("x"), Unauthorized, "auth/unauthorized", http.StatusUnauthorized},
		{Forbiddenf("x"), Forbidden, "auth/forbidden", http.StatusForbidden},
		{NotFoundf("x"), NotFound, "resource/not_found", http.StatusNotFound},
		{Conflictf("x"), Conflict, "resource/conflict", http.StatusConflict},
		{BadGatewayf("x"), BadGateway, "upstream/bad_gateway", http.StatusBadGateway},
		{Unavailablef("x"), Unavailable, "upstream/unavailable", http.StatusServiceUnavailable},
		{Timeoutf("x"), Timeout, "upstream/timeout", http.StatusGatewayTimeout},
		{Internalf(nil, "x"), Internal, "server/internal", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.True(t, IsKind(tc.err, tc.kind), tc.code)
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, HTTPStatus(tc.err))
	}
}

func TestWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := Internalf(cause, "save plan %s", "p-1")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save plan p-1")
	assert.Contains(t, err.Error(), "disk full")

	wrapped := fmt.Errorf("outer: %w", NotFoundf("plan missing"))
	assert.True(t, IsKind(wrapped, NotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestUnknownErrorsAreInternal(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsKind(err, NotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}
