package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the public endpoints of the accounts service and creates
// Sessions on login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req SignupRequest) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/users/signup", req)
	if err != nil {
		return err
	}

	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusCreated)
}

// Login exchanges a username and password for a Session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/users/login", LoginRequest{
		UserName: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var login LoginResponse
	if err := decodeJSON(resp, &login, http.StatusOK); err != nil {
		return nil, err
	}
	if login.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	return c.NewSession(login.Token, login.ExpiresIn), nil
}

// NewSession wraps a token obtained elsewhere. expiresIn is in seconds.
func (c *Client) NewSession(token string, expiresIn int) *Session {
	return &Session{
		client:    c,
		token:     token,
		expiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.doRequest(ctx, method, path, bytes.NewReader(buf), map[string]string{
		"Content-Type": "application/json",
	})
}
