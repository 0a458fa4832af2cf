package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/tier"
)

// Login exchanges credentials for a token and the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, credentialsError(err)
	}
	return &out, nil
}

// Register creates an account and returns its token and profile.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var out AuthResponse
	req := RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.call(ctx, http.MethodPost, "/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile that token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.call(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upgrade moves the account to t. Payment is not part of the flow.
func (c *Client) Upgrade(ctx context.Context, token string, t tier.Tier) (*UpgradeResponse, error) {
	var out UpgradeResponse
	if err := c.call(ctx, http.MethodPost, "/upgrade", token, UpgradeRequest{Tier: t}, &out); err != nil {
		return nil, err
	}
	if out.Tier == "" {
		out.Tier = t
	}
	return &out, nil
}

// credentialsError turns a rejected login into an invalid-credentials error.
func credentialsError(err error) error {
	var me *errors.MarkupError
	if stderrors.As(err, &me) && me.StatusCode == http.StatusUnauthorized {
		out := errors.New(errors.ErrCodeAuthInvalidCredentials, me.Message).WithStatus(me.StatusCode)
		return out.WithSuggestion("Check your email and password, or create an account with 'markup auth register'")
	}
	return err
}
