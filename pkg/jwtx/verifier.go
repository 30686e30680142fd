package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrEmptySecret = errors.New("jwtx: empty signing secret")
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// VerifierOption tweaks an HS256Verifier.
type VerifierOption func(*HS256Verifier)

// WithIssuer requires the iss claim to equal issuer. Empty means "don't care".
func WithIssuer(issuer string) VerifierOption {
	return func(v *HS256Verifier) { v.issuer = issuer }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *HS256Verifier) { v.now = now }
}

// HS256Verifier validates tokens signed with a shared HMAC-SHA256 secret.
// Signature and expiry are always checked.
type HS256Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifierHS256 creates a verifier for tokens produced by an HS256Signer
// holding the same secret.
func NewVerifierHS256(secret []byte, opts ...VerifierOption) (*HS256Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	v := &HS256Verifier{secret: key, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// Only accept exactly HS256, this also rules out "none"
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	// Now check all the claim requirements
	if err := claims.ValidateExpiryAt(v.now()); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIdentity(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// mapParseError collapses golang-jwt errors into our sentinels so callers
// don't need to import the jwt package.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrInvalidClaim
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
