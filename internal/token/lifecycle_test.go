package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avezina/identity-service/internal/repository"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	codec := NewCodec("lifecycle-test-secret")
	return NewManager(codec, repository.NewMemoryBlacklist(), time.Hour, 7*24*time.Hour)
}

func TestIssuePairAndVerifyAccess(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access.Value)
	require.NotEmpty(t, pair.Refresh.Value)
	assert.True(t, pair.Refresh.Exp.After(pair.Access.Exp))

	subject, err := m.VerifyAccess(pair.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-7", subject)

	// Refresh tokens carry a jti, access tokens do not.
	claims, err := m.codec.Decode(pair.Refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.Refresh.Value)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	access, subject, err := m.Refresh(ctx, pair.Refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-7", subject)

	got, err := m.VerifyAccess(access.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-7", got)

	// No rotation: the same refresh token keeps working.
	_, _, err = m.Refresh(ctx, pair.Refresh.Value)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	_, _, err = m.Refresh(context.Background(), pair.Access.Value)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestRevokeBlocksRefresh(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	// Works before revocation.
	_, _, err = m.Refresh(ctx, pair.Refresh.Value)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, pair.Refresh.Value))

	_, _, err = m.Refresh(ctx, pair.Refresh.Value)
	assert.ErrorIs(t, err, ErrRevoked)

	// Revoking again is not an error.
	assert.NoError(t, m.Revoke(ctx, pair.Refresh.Value))
}

func TestRevokeIsScopedToOneToken(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, err := m.IssuePair("user-7")
	require.NoError(t, err)
	second, err := m.IssuePair("user-7")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, first.Refresh.Value))

	// Each pair has its own jti, so the second session survives.
	_, _, err = m.Refresh(ctx, second.Refresh.Value)
	assert.NoError(t, err)
}

func TestRevokeRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t)
	// Shift the clock so issued tokens are already expired when checked.
	m.now = func() time.Time { return time.Now().UTC().Add(-30 * 24 * time.Hour) }
	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().UTC() }

	err = m.Revoke(context.Background(), pair.Refresh.Value)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRevokeRejectsMalformedToken(t *testing.T) {
	m := newTestManager(t)
	err := m.Revoke(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrMalformed)
}
