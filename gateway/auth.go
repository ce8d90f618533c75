package gateway

import (
	"context"
	"net/http"

	"github.com/goliatone/go-errors"
)

// SignUpRequest mirrors the upstream signup body field for field,
// including the rePassword confirmation the API insists on.
type SignUpRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
	Phone      string `json:"phone"`
}

// GoogleLoginRequest is the credential exchange body. Password is a
// synthesized value scoped to the Google subject, never a user secret.
type GoogleLoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Provider    string `json:"provider"`
	GoogleToken string `json:"googleToken"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyResetCodeRequest struct {
	ResetCode string `json:"resetCode"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type sessionResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type statusResponse struct {
	Status    string `json:"status"`
	StatusMsg string `json:"statusMsg"`
	Message   string `json:"message"`
}

// SignUp registers a new account. The upstream confirms with
// {message: "success"}.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) error {
	out := &sessionResponse{}
	return c.do(ctx, http.MethodPost, "auth/signup", "", req, out)
}

// SignIn exchanges credentials for a token. Implements
// storefront.UpstreamAuthenticator.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	out := &sessionResponse{}
	if err := c.do(ctx, http.MethodPost, "auth/signin", "", signInRequest{
		Email:    email,
		Password: password,
	}, out); err != nil {
		return "", err
	}

	if out.Token == "" {
		return "", ErrInvalidResponse.WithMetadata(map[string]any{
			"reason": "signin response missing token",
		})
	}

	return out.Token, nil
}

// VerifyToken asks the upstream whether a stored token is still good.
// Implements storefront.UpstreamAuthenticator.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "auth/verifyToken", token, nil, nil)
}

// ForgotPassword starts the reset journey by mailing a code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	out := &statusResponse{}
	if err := c.do(ctx, http.MethodPost, "auth/forgotPasswords", "", forgotPasswordRequest{
		Email: email,
	}, out); err != nil {
		return err
	}

	if out.StatusMsg != "" && out.StatusMsg != "success" {
		return ErrInvalidResponse.WithMetadata(map[string]any{
			"statusMsg": out.StatusMsg,
		})
	}

	return nil
}

// VerifyResetCode confirms the mailed code. The upstream reports
// {status: "Success"}, capital S, and anything else is a rejection.
func (c *Client) VerifyResetCode(ctx context.Context, code string) error {
	out := &statusResponse{}
	if err := c.do(ctx, http.MethodPost, "auth/verifyResetCode", "", verifyResetCodeRequest{
		ResetCode: code,
	}, out); err != nil {
		return err
	}

	if out.Status != "Success" {
		return ErrResetCodeRejected.WithMetadata(map[string]any{
			"status": out.Status,
		})
	}

	return nil
}

// ResetPassword sets a new password after a verified code. The upstream
// hands back a fresh token which callers may store or discard.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	out := &sessionResponse{}
	if err := c.do(ctx, http.MethodPut, "auth/resetPassword", "", resetPasswordRequest{
		Email:       email,
		NewPassword: newPassword,
	}, out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// GoogleLogin exchanges a Google ID token for an upstream session token.
// Any error here is what sends the OAuth bridge down its fallback path.
func (c *Client) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (string, error) {
	out := &sessionResponse{}
	if err := c.do(ctx, http.MethodPost, "auth/google-login", "", req, out); err != nil {
		return "", err
	}

	if out.Token == "" {
		return "", errors.New("google login response missing token", errors.CategoryAuth).
			WithTextCode(TextCodeAuthRejected).
			WithCode(errors.CodeUnauthorized)
	}

	return out.Token, nil
}
