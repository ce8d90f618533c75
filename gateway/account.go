package gateway

import (
	"context"
	"net/http"
)

// UpdateProfileRequest mirrors the updateMe body. All fields travel even
// when unchanged, the upstream treats the body as the full profile.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ChangePasswordRequest mirrors the changeMyPassword body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	RePassword      string `json:"rePassword"`
}

// UserProfile is the profile slice the upstream returns on updates.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type profileResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

// UpdateProfile rewrites the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) (*UserProfile, error) {
	out := &profileResponse{}
	if err := c.do(ctx, http.MethodPut, "users/updateMe", token, req, out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword rotates the password and returns the fresh token the
// upstream issues alongside.
func (c *Client) ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) (string, error) {
	out := &sessionResponse{}
	if err := c.do(ctx, http.MethodPut, "users/changeMyPassword", token, req, out); err != nil {
		return "", err
	}
	return out.Token, nil
}
