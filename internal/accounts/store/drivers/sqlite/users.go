package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

const userColumns = `id, username, password_hash, name, role, mobile_number, created_at, updated_at`

const getUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = ? LIMIT 1`

const getUserByKey = `SELECT ` + userColumns + ` FROM users WHERE username = ? AND mobile_number = ?`

// ON CONFLICT makes the uniqueness check and the insert one statement.
const createUser = `INSERT INTO users (` + userColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`

type usersRepo struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt string
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.MobileNumber,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: users.created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: users.updated_at: %w", err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByUsername, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if err := store.ValidateNewUser(u); err != nil {
		return err
	}

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	res, err := r.db.ExecContext(ctx, createUser,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Name,
		u.Role,
		u.MobileNumber,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *usersRepo) UpdateUser(
	ctx context.Context,
	username, mobile string,
	patch domain.UserPatch,
) (domain.User, error) {
	if err := store.ValidatePatch(patch); err != nil {
		return domain.User{}, err
	}
	if patch.IsEmpty() {
		return scanUser(r.db.QueryRowContext(ctx, getUserByKey, username, mobile))
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *patch.Role)
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *patch.PasswordHash)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), username, mobile)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE username = ? AND mobile_number = ? RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}
