package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/wordbook/pkg/models"
)

const defaultAuthFailure = "login failed, please try again later"

// Login checks role-scoped credentials. A rejection by the backend is
// returned as *AuthError carrying the backend's message.
func (c *Client) Login(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	req := models.LoginRequest{Username: username, Password: password, Role: role}
	return c.authenticate(ctx, "/login", req)
}

// Register creates an account and returns it as if logged in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*models.User, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
			return nil, &AuthError{Message: se.Detail}
		}
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = defaultAuthFailure
		}
		return nil, &AuthError{Message: msg}
	}
	return resp.User, nil
}
