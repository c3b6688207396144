package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/example/wordbook/pkg/models"
)

// GetWords returns the words of a list, or of every list when listID is 0.
// A positive limit caps the result.
func (c *Client) GetWords(ctx context.Context, listID int64, limit int) []models.Word {
	q := url.Values{}
	if listID > 0 {
		q.Set("list_id", strconv.FormatInt(listID, 10))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return readList[models.Word](ctx, c, "/words", q)
}

// GetWord fetches one word.
func (c *Client) GetWord(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	if err := c.get(ctx, idPath("/words", id), nil, &word); err != nil {
		return nil, err
	}
	return &word, nil
}

// AddWordToList creates word inside the list.
func (c *Client) AddWordToList(ctx context.Context, listID int64, word models.Word) (*models.Word, error) {
	word.ListID = listID
	var created models.Word
	if err := c.post(ctx, "/words", word, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWord replaces a word's text, translations and phrases.
func (c *Client) UpdateWord(ctx context.Context, id int64, word models.Word) (*models.Word, error) {
	var updated models.Word
	if err := c.put(ctx, idPath("/words", id), word, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWord removes a word.
func (c *Client) DeleteWord(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/words", id), nil)
}

// GetWordLists returns the lists visible to a user: their own and the
// public ones. A zero userID returns every list.
func (c *Client) GetWordLists(ctx context.Context, userID int64) []models.WordList {
	var q url.Values
	if userID > 0 {
		q = userQuery(userID)
	}
	return readList[models.WordList](ctx, c, "/wordlists", q)
}

// GetWordList fetches a list with its words.
func (c *Client) GetWordList(ctx context.Context, id int64) (*models.WordList, error) {
	var list models.WordList
	if err := c.get(ctx, idPath("/wordlists", id), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateWordList creates a list.
func (c *Client) CreateWordList(ctx context.Context, list models.WordList) (*models.WordList, error) {
	var created models.WordList
	if err := c.post(ctx, "/wordlists", list, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWordList changes a list's metadata.
func (c *Client) UpdateWordList(ctx context.Context, id int64, list models.WordList) (*models.WordList, error) {
	var updated models.WordList
	if err := c.put(ctx, idPath("/wordlists", id), list, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWordList removes a list and its words.
func (c *Client) DeleteWordList(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/wordlists", id), nil)
}
