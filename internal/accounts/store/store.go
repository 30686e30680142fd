package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// dynamodb) implement this. Every mutation is a single conditional write, so
// there is no transaction API.
type Store interface {
	Users() Users

	// ApplyMigrations prepares the backing schema. Drivers without a schema
	// (dynamodb) verify the table instead.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByUsername returns ErrNotFound when no record has username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts u only if no record with the same username exists.
	// The check and the write are one atomic operation; a lost race returns
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies patch to the record addressed by (username, mobile)
	// and bumps updated_at. It returns the record as stored after the write,
	// or ErrNotFound when no record matches both keys.
	UpdateUser(ctx context.Context, username, mobile string, patch domain.UserPatch) (domain.User, error)
}

// Exists reports whether a record with username is stored.
func Exists(ctx context.Context, users Users, username string) (bool, error) {
	_, err := users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ErrInvalidRecord is returned when a driver is asked to persist a record
// that breaks the user invariants.
var ErrInvalidRecord = errors.New("store: invalid record")

// ValidateNewUser checks the fields every driver requires before insert.
func ValidateNewUser(u domain.User) error {
	switch {
	case u.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	case u.Username == "":
		return fmt.Errorf("%w: missing username", ErrInvalidRecord)
	case u.MobileNumber == "":
		return fmt.Errorf("%w: missing mobile number", ErrInvalidRecord)
	case u.PasswordHash == "":
		return fmt.Errorf("%w: empty password hash", ErrInvalidRecord)
	}
	return nil
}

// ValidatePatch rejects patches that would blank the password hash.
func ValidatePatch(p domain.UserPatch) error {
	if p.PasswordHash != nil && *p.PasswordHash == "" {
		return fmt.Errorf("%w: empty password hash", ErrInvalidRecord)
	}
	return nil
}
