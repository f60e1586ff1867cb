package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapsSentinel(t *testing.T) {
	err := DuplicateEmail("a@x.com")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, "DUPLICATE_EMAIL", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("user", "abc")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidCredentials()))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Unverified()))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(TokenExpired("verification token expired")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("missing token")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	// Status survives fmt.Errorf wrapping.
	err := fmt.Errorf("login: %w", ErrInvalidCredentials)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	err = fmt.Errorf("guard: %w", ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestInvalidCredentials_DoesNotLeakAccountExistence(t *testing.T) {
	// Same message for unknown email and wrong password.
	err := InvalidCredentials()
	assert.Equal(t, "invalid email or password", err.Message)
}
