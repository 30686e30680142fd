package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Session carries an access token. It is safe for concurrent use.
type Session struct {
	client *Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Token returns the raw access token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expired reports whether the token's lifetime has passed.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !time.Now().Before(s.expiresAt)
}

// Profile returns the caller's own account.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeJSON(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}
	return &profile.User, nil
}

// UpdateProfile changes the caller's name and/or role.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserMessageResponse, error) {
	return s.userMessage(ctx, http.MethodPatch, "/v1/users/me", req)
}

// ChangePassword replaces the caller's password. The current token stays
// valid until it expires.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*UserMessageResponse, error) {
	return s.userMessage(ctx, http.MethodPost, "/v1/users/me/password", req)
}

func (s *Session) userMessage(ctx context.Context, method, path string, body any) (*UserMessageResponse, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, method, path, bytes.NewReader(buf), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var out UserMessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
