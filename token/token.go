// Package token issues and verifies signed, time-bounded identity
// assertions. Tokens are HS256-signed JWTs whose subject is the user ID;
// nothing is persisted, so a token stands entirely on its signature and
// validity window.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the signature verifies but the
	// token is past its expiry. Callers may surface a re-login prompt for
	// this case; both errors deny access.
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the JWT payload: standard registered claims with the user ID
// as subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer creates and verifies tokens with a process-wide secret. The secret
// and TTL are set at construction and immutable afterwards, so an Issuer is
// safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer signing with secret and granting tokens a
// validity window of ttl.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// TTL returns the validity window granted to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue builds and signs a token asserting the given subject, valid from
// now until now plus the issuer's TTL.
func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks its signature and validity window, and
// returns the asserted subject. Failures are ErrExpiredToken for a
// well-signed but stale token and ErrInvalidToken for everything else.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
