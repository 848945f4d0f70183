// Package auth provides session token issuance and password hashing for the
// account API.
//
// SESSION MODEL:
// A login issues a signed JWT carrying the user's ID and a 7-day expiry. The
// token is stateless — the server stores nothing per session, and validity is
// exactly what the signature and expiry check say. There is no revocation
// list: "logout" just deletes the client-side cookie. That trade-off is
// acceptable here because the API has no logout-everywhere semantics.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims (data) → {"sub":"userID","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The server verifies the signature with the process-wide secret alone — no
// DB lookup. The secret is injected once at startup and never mutated, so no
// locking is needed around it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the session lifetime. It doubles as the MaxAge of the cookie
// the handler sets, so the browser forgets the token when it expires.
const tokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies signed session tokens.
//
// It holds the HMAC secret used for both signing and verification. The secret
// should be at least 32 bytes of random data in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims, which includes
// the standard fields (Subject, ExpiresAt, IssuedAt, Issuer).
//
// We use "sub" (Subject) to carry the internal user ID — the standard claim
// for identifying who the token belongs to.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given userID, valid for
// 7 days from now.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-service deployment like this one.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithDuration(userID, tokenTTL)
}

// IssueWithDuration creates a token with a custom expiry duration.
// Used by tests to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "account-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// MaxAge returns the token lifetime in whole seconds, in the form the
// Set-Cookie header wants it.
func (s *TokenService) MaxAge() int {
	return int(tokenTTL.Seconds())
}

// Verify parses and verifies a token string and returns the userID it
// carries. Verification is all-or-nothing: malformed structure, signature
// mismatch, wrong algorithm, wrong issuer, and expired timestamp all fail
// the same way — the caller learns nothing from a partially-valid token.
//
// ALGORITHM CONFUSION:
// Without pinning the algorithm, an attacker could present a token signed
// with "none" and some libraries would accept it. jwt.WithValidMethods
// closes that hole.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("account-api"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
