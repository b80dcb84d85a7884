package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Username string `validate:"required,max=150"`
	Password string `validate:"required"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(loginForm{Username: "alice", Password: "s3cret"})
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(loginForm{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Username"])
	assert.Equal(t, "is required", fields["Password"])
	assert.Contains(t, valErr.Error(), "field 'Username' is required")
}
