package api

import (
	"context"
	"net/http"

	"ytcorpus/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Login authenticates with the backend and captures the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the backend session and drops the local cookie.
func (c *Client) Logout(ctx context.Context) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, &resp)
	c.session = nil
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me resolves the current principal from the session cookie.
//
// A 401 surfaces as [shared.ErrNotAuthenticated].
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new account. Admin-only on the backend side.
func (c *Client) Register(ctx context.Context, username, password string, role models.Role) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Username: username, Password: password, Role: role}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
