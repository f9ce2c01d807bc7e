package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{BadRequest("quantity is required"), http.StatusBadRequest},
		{Unauthorized("invalid token"), http.StatusUnauthorized},
		{Forbidden("admin access required"), http.StatusForbidden},
		{NotFound("product not found"), http.StatusNotFound},
		{Conflict("email already registered"), http.StatusConflict},
		{Internal(errors.New("dial tcp: connection refused")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status())
	}
}

func TestFromPassesThroughClassifiedErrors(t *testing.T) {
	orig := NotFound("cart not found")

	got := From(orig)
	assert.Same(t, orig, got)

	// Classified errors survive wrapping with %w.
	wrapped := fmt.Errorf("add item: %w", orig)
	got = From(wrapped)
	assert.Same(t, orig, got)
}

func TestFromWrapsUnclassifiedAsInternal(t *testing.T) {
	cause := errors.New("pq: connection reset by peer")

	got := From(cause)
	require.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, http.StatusInternalServerError, got.Status())

	// The cause stays server-side; the client message is generic.
	assert.Equal(t, "An unexpected error occurred", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("update: %w", NotFound("item not found in cart"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
