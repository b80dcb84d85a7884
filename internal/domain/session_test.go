package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	tok, err := NewSessionToken()
	require.NoError(t, err)
	assert.Len(t, tok, 40)

	other, err := NewSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
