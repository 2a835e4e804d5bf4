package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken(t *testing.T) {
	tok, err := NewRefreshToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	b, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, b, refreshTokenBytes)

	other, err := NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
