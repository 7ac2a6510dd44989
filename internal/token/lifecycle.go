package token

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrRevoked is returned when a refresh token's jti is present in the
// blacklist.  A revoked identifier stays rejected permanently, even
// while its signature and expiry are otherwise valid.
var ErrRevoked = errors.New("token has been revoked")

// Blacklist is the set of revoked refresh-token identifiers.  It must
// be safe for concurrent Insert and Contains calls; entries may expire
// after the ttl passed to Insert since the token itself is dead by then.
type Blacklist interface {
	Insert(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Token couples a serialized token string with its expiry so handlers
// can report both to the client.
type Token struct {
	Value string    // the serialized signed token
	Exp   time.Time // UTC expiration time
}

// Pair is the access/refresh pair issued at registration and login.
type Pair struct {
	Access  Token
	Refresh Token
}

// Manager issues, verifies and revokes token pairs.  It owns no state
// beyond the injected blacklist, so a single instance serves all
// requests concurrently.
type Manager struct {
	codec      *Codec
	blacklist  Blacklist
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time // overridable in tests
}

// NewManager wires a codec and blacklist into a lifecycle manager.
func NewManager(codec *Codec, blacklist Blacklist, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		codec:      codec,
		blacklist:  blacklist,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// IssuePair mints an access token and a refresh token for the user.
// The refresh token carries a fresh random jti for later blacklist
// lookups.  No blacklist check happens at issuance.
func (m *Manager) IssuePair(userID string) (Pair, error) {
	now := m.now()

	access, err := m.codec.Encode(newClaims(TypeAccess, userID, "", now, m.accessTTL))
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.codec.Encode(newClaims(TypeRefresh, userID, uuid.NewString(), now, m.refreshTTL))
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Access:  Token{Value: access, Exp: now.Add(m.accessTTL)},
		Refresh: Token{Value: refresh, Exp: now.Add(m.refreshTTL)},
	}, nil
}

// VerifyAccess decodes an access token and returns its subject (the
// user id).  Codec failures propagate unchanged; a refresh token
// presented here fails with ErrWrongType.
func (m *Manager) VerifyAccess(raw string) (string, error) {
	claims, err := m.codec.Decode(raw)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TypeAccess {
		return "", ErrWrongType
	}
	return claims.Subject, nil
}

// Refresh validates a refresh token and mints a new access token for
// the same subject.  The refresh token is NOT rotated: it stays valid
// for repeated use until it expires or is revoked at logout.  That
// matches the upstream policy; see DESIGN.md.  The subject is returned
// so callers can confirm the user still exists.
func (m *Manager) Refresh(ctx context.Context, raw string) (Token, string, error) {
	claims, err := m.decodeRefresh(raw)
	if err != nil {
		return Token{}, "", err
	}
	revoked, err := m.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return Token{}, "", err
	}
	if revoked {
		return Token{}, "", ErrRevoked
	}

	now := m.now()
	access, err := m.codec.Encode(newClaims(TypeAccess, claims.Subject, "", now, m.accessTTL))
	if err != nil {
		return Token{}, "", err
	}
	return Token{Value: access, Exp: now.Add(m.accessTTL)}, claims.Subject, nil
}

// Revoke adds a refresh token's jti to the blacklist.  The token must
// decode cleanly first; a malformed or already-expired token carries no
// future risk and is rejected instead of stored.  Revoking the same
// token twice is not an error.
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	claims, err := m.decodeRefresh(raw)
	if err != nil {
		return err
	}
	// Keep the entry only as long as the token could still be replayed.
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.blacklist.Insert(ctx, claims.ID, ttl)
}

func (m *Manager) decodeRefresh(raw string) (Claims, error) {
	claims, err := m.codec.Decode(raw)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != TypeRefresh || claims.ID == "" {
		return Claims{}, ErrWrongType
	}
	return claims, nil
}
