package api

import (
	"context"
	"fmt"

	"github.com/example/wordbook/pkg/models"
)

// GetReviewSchedule returns a user's review schedules, earliest due first.
func (c *Client) GetReviewSchedule(ctx context.Context, userID int64) []models.ReviewSchedule {
	return readList[models.ReviewSchedule](ctx, c, "/review", userQuery(userID))
}

// CreateReviewSchedule schedules a word for review.
func (c *Client) CreateReviewSchedule(ctx context.Context, req models.ReviewScheduleRequest) (*models.ReviewSchedule, error) {
	var rs models.ReviewSchedule
	if err := c.post(ctx, "/review/schedule", req, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// UpdateReviewSchedule overwrites a schedule.
func (c *Client) UpdateReviewSchedule(ctx context.Context, id int64, req models.ReviewScheduleRequest) (*models.ReviewSchedule, error) {
	var rs models.ReviewSchedule
	if err := c.put(ctx, idPath("/review/schedule", id), req, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// GradeReview reports recall quality (0..5) and returns the rescheduled entry.
func (c *Client) GradeReview(ctx context.Context, id int64, quality int) (*models.ReviewSchedule, error) {
	var rs models.ReviewSchedule
	path := fmt.Sprintf("/review/schedule/%d/grade", id)
	if err := c.post(ctx, path, models.ReviewGrade{Quality: quality}, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}
