package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an access token issued at login.
const DefaultTokenTTL = 3600 * time.Second

// Claims carried by an account access token. Username is the only identity
// claim; the registered claims carry expiry and issuer.
//
// The JSON name matches what the previous service emitted so tokens stay
// readable by existing clients.
type Claims struct {
	jwt.RegisteredClaims

	Username string `json:"UserName"`
}

// NewClaims builds claims for username that expire ttl after now.
func NewClaims(username string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Username: username,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateIdentity requires the username claim.
func (c *Claims) ValidateIdentity() error {
	if c.Username == "" {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryAt rejects a token at or after its exp, and one without exp
// at all. Tokens here are never issued without an expiry.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}

	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
