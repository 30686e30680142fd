package domain

import "time"

// User is the persisted account record. Username is unique and, together
// with MobileNumber, addresses the record for updates.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt encoded, never empty once stored
	Name         string
	Role         string
	MobileNumber string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of User that is safe to hand to callers.
type PublicUser struct {
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	MobileNumber string    `json:"mobileNumber"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public strips credentials from u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		UserName:     u.Username,
		Name:         u.Name,
		Role:         u.Role,
		MobileNumber: u.MobileNumber,
		CreatedAt:    u.CreatedAt,
	}
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Role         *string
	PasswordHash *string
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Role == nil && p.PasswordHash == nil
}
