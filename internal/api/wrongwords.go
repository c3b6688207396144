package api

import (
	"context"

	"github.com/example/wordbook/pkg/models"
)

// AddWrongWord records a mistake. Repeated mistakes on the same word
// increment its wrong count.
func (c *Client) AddWrongWord(ctx context.Context, req models.WrongWordRequest) (*models.WrongWord, error) {
	if req.ErrorType == "" {
		req.ErrorType = models.ErrorTypeMeaning
	}
	var ww models.WrongWord
	if err := c.post(ctx, "/wrongwords/add", req, &ww); err != nil {
		return nil, err
	}
	return &ww, nil
}

// GetWrongWords returns a user's error book.
func (c *Client) GetWrongWords(ctx context.Context, userID int64) []models.WrongWord {
	return readList[models.WrongWord](ctx, c, "/wrongwords", userQuery(userID))
}

// RemoveWrongWord deletes one error-book record.
func (c *Client) RemoveWrongWord(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/wrongwords", id), nil)
}

// MarkWrongWordMastered clears a word from the user's error book.
func (c *Client) MarkWrongWordMastered(ctx context.Context, userID, wordID int64) error {
	return c.post(ctx, "/wrongwords/mastered", models.MasteredRequest{UserID: userID, WordID: wordID}, nil)
}
