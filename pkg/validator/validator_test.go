package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Title    string `validate:"omitempty,max=10"`
}

func TestValidate_Passes(t *testing.T) {
	err := Validate(sampleRequest{Email: "a@x.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(sampleRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
}

func TestValidate_RequiredMessage(t *testing.T) {
	err := Validate(sampleRequest{})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "is required", valErr.Fields()["Email"])
	assert.Contains(t, valErr.Error(), "field 'Email' is required")
}

func TestValidate_MaxMessage(t *testing.T) {
	err := Validate(sampleRequest{Email: "a@x.com", Password: "password123", Title: "this title is way too long"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be at most 10 characters", valErr.Fields()["Title"])
}
