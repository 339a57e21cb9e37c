package marketapi

import (
	"context"
	"net/http"
	"strconv"
)

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

// User represents a marketplace user record. The same shape comes back
// from /login and from /users/{id} (where it describes a boat owner).
type User struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// SignUpRequest creates a new marketplace account.
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserRequest updates the mutable profile fields.
type UpdateUserRequest struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	UserID      int64  `json:"user_id" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// PasswordResult is the password-change answer; User is present when
// the API returns a refreshed record.
type PasswordResult struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *User `json:"user"`
}

// Login exchanges credentials for the session user object.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", nil, loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, req SignUpRequest) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "/users", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches a user record, typically a boat owner shown next to
// a booking form.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser updates profile fields and returns the stored record.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, userPath(req.UserID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, req ChangePasswordRequest) (*PasswordResult, error) {
	var out PasswordResult
	if err := c.doJSON(ctx, http.MethodPut, userPath(req.UserID)+"/password", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// AddPhone attaches a phone number to an account that has none.
func (c *Client) AddPhone(ctx context.Context, userID int64, phone string) error {
	return c.doJSON(ctx, http.MethodPost, userPath(userID)+"/add-phone", nil, phoneRequest{Phone: phone}, nil)
}

// UpdatePhone replaces the stored phone number.
func (c *Client) UpdatePhone(ctx context.Context, userID int64, phone string) error {
	return c.doJSON(ctx, http.MethodPost, userPath(userID)+"/update-phone", nil, phoneRequest{Phone: phone}, nil)
}
