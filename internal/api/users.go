package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// UserDetail represents a managed account as returned by the admin endpoints
type UserDetail struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// UserListResponse is a paginated user listing
type UserListResponse struct {
	Items    []UserDetail `json:"items"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Total    int          `json:"total"`
	Pages    int          `json:"pages"`
}

// CreateUserRequest creates a new account (admin only)
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest patches an account; nil fields are untouched
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// UpdateMyProfileRequest updates the caller's own profile
type UpdateMyProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Technician is a technician account summary used by POS pricing
type Technician struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListUsers returns a paginated user listing (admin only)
func (c *Client) ListUsers(ctx context.Context, page int, search string) (*UserListResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		q.Set("search", search)
	}
	var resp UserListResponse
	if err := c.get(ctx, "/admin/users", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserByID returns one account (admin only)
func (c *Client) UserByID(ctx context.Context, id int64) (*UserDetail, error) {
	var user UserDetail
	if err := c.get(ctx, fmt.Sprintf("/admin/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account (admin only)
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDetail, error) {
	var user UserDetail
	if err := c.post(ctx, "/admin/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser patches an account (admin only)
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UserDetail, error) {
	var user UserDetail
	if err := c.put(ctx, fmt.Sprintf("/admin/users/%d", id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/users/%d", id))
}

// ToggleUserActive flips an account's active flag (admin only)
func (c *Client) ToggleUserActive(ctx context.Context, id int64) (*UserDetail, error) {
	var user UserDetail
	if err := c.patch(ctx, fmt.Sprintf("/admin/users/%d/toggle-active", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyProfile returns the caller's own profile
func (c *Client) MyProfile(ctx context.Context) (*UserDetail, error) {
	var user UserDetail
	if err := c.get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMyProfile updates the caller's own profile
func (c *Client) UpdateMyProfile(ctx context.Context, req UpdateMyProfileRequest) (*UserDetail, error) {
	var user UserDetail
	if err := c.put(ctx, "/users/me", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTechnicians looks up technician accounts for POS pricing
func (c *Client) SearchTechnicians(ctx context.Context, query string) ([]Technician, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	var out []Technician
	if err := c.get(ctx, "/users/technicians", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
