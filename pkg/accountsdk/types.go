package accountsdk

import "time"

// ============================================================================
// Request Types
// ============================================================================

// SignupRequest is the body of POST /v1/users/signup. Every field is required.
type SignupRequest struct {
	Name         string `json:"name" example:"Ann"`
	UserName     string `json:"userName" example:"ann1"`
	Password     string `json:"password" example:"Secr3t!"`
	Role         string `json:"role" example:"admin"`
	MobileNumber string `json:"mobileNumber" example:"555-0100"`
}

// LoginRequest is the body of POST /v1/users/login.
type LoginRequest struct {
	UserName string `json:"userName" example:"ann1"`
	Password string `json:"password" example:"Secr3t!"`
}

// UpdateProfileRequest is the body of PATCH /v1/users/me. Empty fields are
// left unchanged. UserName, when set, must be the caller's own username.
type UpdateProfileRequest struct {
	UserName string `json:"userName,omitempty" example:"ann1"`
	Name     string `json:"name,omitempty" example:"Ann B"`
	Role     string `json:"role,omitempty" example:"editor"`
}

// ChangePasswordRequest is the body of POST /v1/users/me/password.
type ChangePasswordRequest struct {
	UserName    string `json:"userName,omitempty" example:"ann1"`
	OldPassword string `json:"oldPassword" example:"Secr3t!"`
	NewPassword string `json:"newPassword" example:"N3wSecr3t!"`
}

// ============================================================================
// Response Types
// ============================================================================

// MessageResponse is the body of every failure and of signup.
type MessageResponse struct {
	Message string `json:"message" example:"signup successful"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string `json:"message" example:"Login successful"`

	// Token is an HS256 signed JWT to send as "Authorization: Bearer <token>"
	Token string `json:"token"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int `json:"expires_in" example:"3600"`
}

// User is the public view of an account. It never carries the password hash.
type User struct {
	ID           string    `json:"id" example:"01JAF8T9V4Y6N2J4M9Q0R2S3T4"`
	UserName     string    `json:"userName" example:"ann1"`
	Name         string    `json:"name" example:"Ann"`
	Role         string    `json:"role" example:"admin"`
	MobileNumber string    `json:"mobileNumber" example:"555-0100"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileResponse wraps the user for GET /v1/users/me.
type ProfileResponse struct {
	User User `json:"user"`
}

// UserMessageResponse is returned by profile and password updates.
type UserMessageResponse struct {
	Message string `json:"message" example:"Profile updated successfully!"`
	User    User   `json:"user"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status is "ok" or "degraded"
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each dependency checked by /readyz.
type HealthChecks struct {
	// Store is the user store (sqlite or dynamodb)
	Store string `json:"store"`
}
