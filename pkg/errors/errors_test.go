package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("bill").StatusCode())
	assert.Equal(t, http.StatusBadRequest, Validation("bad input").StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("taken").StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no token").StatusCode())
	assert.Equal(t, http.StatusServiceUnavailable, Transient("backend down", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(stderrors.New("boom")).StatusCode())
}

func TestCode(t *testing.T) {
	assert.Equal(t, ErrNotFound, Code(NotFound("bill")))
	assert.True(t, IsCode(Conflict("taken"), ErrConflict))

	// Wrapped AppErrors still report their own code.
	wrapped := fmt.Errorf("handling request: %w", Validation("bad input"))
	assert.Equal(t, ErrValidation, Code(wrapped))

	// Anything else is internal.
	assert.Equal(t, ErrInternal, Code(stderrors.New("boom")))
}

func TestErrorMessage(t *testing.T) {
	assert.EqualError(t, NotFound("appointment"), "appointment not found")

	wrapped := Transient("queue unavailable", stderrors.New("dial tcp: refused"))
	assert.EqualError(t, wrapped, "queue unavailable: dial tcp: refused")
	assert.EqualError(t, stderrors.Unwrap(wrapped), "dial tcp: refused")
}
