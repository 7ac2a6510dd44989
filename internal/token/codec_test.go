package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	c := NewCodec("test-secret")
	now := time.Now().UTC().Truncate(time.Second)

	raw, err := c.Encode(newClaims(TypeAccess, "user-42", "", now, time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := c.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	raw, err := NewCodec("secret-one").Encode(
		newClaims(TypeAccess, "user-1", "", time.Now().UTC(), time.Hour))
	require.NoError(t, err)

	_, err = NewCodec("secret-two").Decode(raw)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestCodecRejectsExpired(t *testing.T) {
	c := NewCodec("test-secret")
	// Issued two hours ago with a one hour lifetime.
	raw, err := c.Encode(newClaims(TypeAccess, "user-1", "",
		time.Now().UTC().Add(-2*time.Hour), time.Hour))
	require.NoError(t, err)

	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodecRejectsMalformed(t *testing.T) {
	c := NewCodec("test-secret")
	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d", "??.??.??"} {
		_, err := c.Decode(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestCodecRejectsNotYetValid(t *testing.T) {
	c := NewCodec("test-secret")
	now := time.Now().UTC()
	claims := newClaims(TypeAccess, "user-1", "", now, time.Hour)
	claims.NotBefore = jwt.NewNumericDate(now.Add(30 * time.Minute))

	raw, err := c.Encode(claims)
	require.NoError(t, err)

	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, ErrNotYetValid)
}

func TestCodecRejectsForeignAlgorithm(t *testing.T) {
	// A token signed with "none" must not pass, however well-formed.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewCodec("test-secret").Decode(raw)
	assert.Error(t, err)
}
