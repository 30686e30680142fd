package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored passwords.
const DefaultCost = 8

// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72 byte
// input limit. We reject instead of silently truncating.
var ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	Cost int
}

// DefaultHasher is what HashPassword and VerifyPassword use.
var DefaultHasher = Hasher{Cost: DefaultCost}

// Hash returns a salted bcrypt digest of password. Two calls with the same
// input produce different strings which both verify.
func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash. A malformed or
// empty hash never matches.
func (h Hasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword hashes with DefaultHasher.
func HashPassword(password string) (string, error) {
	return DefaultHasher.Hash(password)
}

// VerifyPassword verifies with DefaultHasher.
func VerifyPassword(password, hash string) bool {
	return DefaultHasher.Verify(password, hash)
}
