package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Roles recognized by the backend
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents the authenticated account
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
	DeviceName string `json:"deviceName,omitempty"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LogoutResponse represents the logout response
type LogoutResponse struct {
	Success bool `json:"success"`
}

// Login exchanges credentials for a token pair. A rejected email/password
// pair yields ErrInvalidCredentials; transport failures pass through.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, request{method: http.MethodPost, endpoint: "/auth/login", body: req}, &resp)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, se.Message)
		}
		return nil, err
	}
	if !resp.Success || resp.Token == "" || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = "login rejected"
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	}
	return &resp, nil
}

// Me returns the profile of the currently authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken exchanges a refresh token for a new token pair. A 401
// means the refresh token is expired or revoked; this is terminal.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var resp RefreshResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/auth/refresh",
		body:     RefreshRequest{RefreshToken: refreshToken},
		noRetry:  true,
	}, &resp)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", ErrRefreshFailed, se.Message)
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: backend returned no access token", ErrRefreshFailed)
	}
	return &resp, nil
}

// Logout invalidates the session server-side. Best-effort: callers clear
// local state regardless of the outcome. Never triggers a refresh.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{
		method:     http.MethodPost,
		endpoint:   "/auth/logout",
		authorized: true,
		noRetry:    true,
	}, nil)
}
