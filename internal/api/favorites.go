package api

import (
	"context"

	"github.com/example/wordbook/pkg/models"
)

// FavoriteWord stars a word for a user.
func (c *Client) FavoriteWord(ctx context.Context, userID, wordID int64) error {
	return c.post(ctx, "/favorite/add", models.FavoriteRequest{UserID: userID, WordID: wordID}, nil)
}

// UnfavoriteWord removes a star.
func (c *Client) UnfavoriteWord(ctx context.Context, userID, wordID int64) error {
	return c.delete(ctx, idPath("/favorite", wordID), userQuery(userID))
}

// GetFavoriteWords returns the words a user starred.
func (c *Client) GetFavoriteWords(ctx context.Context, userID int64) []models.Word {
	return readList[models.Word](ctx, c, "/favorite", userQuery(userID))
}
