package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hash)

	assert.True(t, VerifyPassword(hash, "Str0ng!Pass"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "Str0ng!Pass"))
}
