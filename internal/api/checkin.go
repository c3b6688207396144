package api

import (
	"context"
	"strconv"

	"github.com/example/wordbook/pkg/models"
)

// CheckInToday records today's check-in. Checking in twice on one day is
// not an error; the response reports AlreadyCheckedIn.
func (c *Client) CheckInToday(ctx context.Context, req models.CheckInRequest) (*models.CheckInResponse, error) {
	var resp models.CheckInResponse
	if err := c.post(ctx, "/check-in/today", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCheckInLogs returns a user's check-ins, newest first.
func (c *Client) GetCheckInLogs(ctx context.Context, userID int64, limit int) []models.CheckInLog {
	q := userQuery(userID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return readList[models.CheckInLog](ctx, c, "/check-in/logs", q)
}

// GetCheckInStats returns streak and count summaries of a user's check-ins.
func (c *Client) GetCheckInStats(ctx context.Context, userID int64) (*models.CheckInStats, error) {
	var st models.CheckInStats
	if err := c.get(ctx, "/check-in/stats", userQuery(userID), &st); err != nil {
		return nil, err
	}
	return &st, nil
}
