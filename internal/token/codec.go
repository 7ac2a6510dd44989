package token // package token implements the signed session-token core: codec and lifecycle

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Token type values carried in the "typ" claim.  Access and refresh
// tokens share one codec and secret; the claim keeps one from being
// replayed as the other.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Decode failure sentinels.  Callers match with errors.Is; the handler
// layer translates them into HTTP status codes.
var (
	// ErrMalformed is returned when the token is not three valid
	// base64url segments or the payload cannot be parsed.
	ErrMalformed = errors.New("token is malformed")
	// ErrSignatureInvalid is returned when the recomputed HMAC does not
	// match the supplied signature.
	ErrSignatureInvalid = errors.New("token signature is invalid")
	// ErrExpired is returned when the current time is at or past the
	// token's expiry claim.
	ErrExpired = errors.New("token has expired")
	// ErrNotYetValid is returned when a not-before claim lies in the
	// future.  Tokens issued by this service carry no nbf claim, but the
	// codec honors it as part of the general contract.
	ErrNotYetValid = errors.New("token not yet valid")
	// ErrWrongType is returned when a token of one type is presented
	// where the other is required.
	ErrWrongType = errors.New("unexpected token type")
)

// Claims is the decoded payload of a session token.  Subject holds the
// user id, ID holds the jti used for refresh-token blacklist lookups.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec performs symmetric encode/decode of a claim set into a compact
// signed string (header.payload.signature, each part base64url).  It is
// stateless: output is a pure function of input, current time and the
// secret key.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given HS256 secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode serializes the claim set and signs it with HMAC-SHA256.
func (c *Codec) Encode(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode splits and verifies a token string and returns its claims.
// The signature is compared in constant time by the underlying HMAC
// verification.  Failures are reported as the sentinel errors above.
func (c *Codec) Decode(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject any signing method other than HMAC before touching the key.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

// mapParseError collapses jwt/v5 parse errors onto the codec's sentinel
// taxonomy.  Expiry is checked first: an expired token with a valid
// signature must surface as ErrExpired, not a generic validation error.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}

// newClaims builds a claim set for the given subject and lifetime.
// jti is optional and only set on refresh tokens.
func newClaims(typ, subject, jti string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
