package api

import (
	"context"

	"github.com/example/wordbook/pkg/models"
)

// GetUsers lists every account.
func (c *Client) GetUsers(ctx context.Context) []models.User {
	return readList[models.User](ctx, c, "/users", nil)
}

// GetUser fetches one account.
func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, idPath("/users", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account on behalf of an administrator.
func (c *Client) CreateUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes the non-empty fields of update.
func (c *Client) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, idPath("/users", id), update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/users", id), nil)
}
