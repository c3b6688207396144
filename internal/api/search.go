package api

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/example/wordbook/pkg/models"
)

// Search types accepted by GlobalSearch.
const (
	SearchAll   = "all"
	SearchWords = "words"
	SearchLists = "lists"
	SearchUsers = "users"
)

// GlobalSearch searches words, lists and users. Failures yield empty results.
func (c *Client) GlobalSearch(ctx context.Context, query, searchType string) models.SearchResults {
	if searchType == "" {
		searchType = SearchAll
	}
	var res models.SearchResults
	q := url.Values{"query": {query}, "type": {searchType}}
	if err := c.get(ctx, "/search", q, &res); err != nil {
		c.logger.Warn("read failed, using empty result", zap.String("path", "/search"), zap.Error(err))
		res = models.SearchResults{}
	}
	if res.Words == nil {
		res.Words = []models.Word{}
	}
	if res.Lists == nil {
		res.Lists = []models.WordList{}
	}
	if res.Users == nil {
		res.Users = []models.User{}
	}
	return res
}

// ExportData dumps a user's data. exportType is one of all, words, progress
// or tests.
func (c *Client) ExportData(ctx context.Context, userID int64, exportType string) (*models.ExportData, error) {
	q := userQuery(userID)
	if exportType != "" {
		q.Set("type", exportType)
	}
	var data models.ExportData
	if err := c.get(ctx, "/export", q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
