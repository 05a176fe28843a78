package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidCredentials, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeUpstream, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.code.HTTPStatus(), "code %s", tt.code)
	}
}

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := NotFound("tool not found")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
}

func TestErrorIs_ThroughWrapping(t *testing.T) {
	inner := Validation("username is required")
	wrapped := fmt.Errorf("register: %w", inner)

	assert.True(t, Is(wrapped, ErrValidation))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeValidation, domainErr.Code)
	assert.Equal(t, "username is required", domainErr.Message)
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Upstream("AI response failed").WithCause(cause)

	assert.Equal(t, "AI response failed: connection refused", err.Error())
	assert.True(t, Is(err, ErrUpstream))
	assert.Equal(t, cause, Unwrap(err))
}

func TestWithDetails(t *testing.T) {
	err := Validation("validation failed").WithDetails(map[string]string{"email": "is required"})

	assert.Equal(t, CodeValidation, err.Code)
	assert.NotNil(t, err.Details)
	// Details must not leak the original error message.
	assert.Equal(t, "validation failed", err.Message)
}
