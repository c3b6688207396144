package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/example/wordbook/pkg/models"
)

// LogStudy records the outcome of one study action.
func (c *Client) LogStudy(ctx context.Context, req models.StudyLogRequest) (*models.StudyLog, error) {
	var log models.StudyLog
	if err := c.post(ctx, "/study/log", req, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// GetStudyLogs returns a user's most recent study logs, newest first.
// A non-positive limit means DefaultStudyLogLimit.
func (c *Client) GetStudyLogs(ctx context.Context, userID int64, limit int) []models.StudyLog {
	if limit <= 0 {
		limit = DefaultStudyLogLimit
	}
	q := userQuery(userID)
	q.Set("limit", strconv.Itoa(limit))
	return readList[models.StudyLog](ctx, c, "/studylog", q)
}

// GenerateTestQuestions asks the backend for count multiple-choice questions.
func (c *Client) GenerateTestQuestions(ctx context.Context, count int, difficulty string) []models.TestQuestion {
	q := url.Values{"count": {strconv.Itoa(count)}}
	if difficulty != "" {
		q.Set("difficulty", difficulty)
	}
	return readList[models.TestQuestion](ctx, c, "/test/questions", q)
}

// SubmitTestResult stores a finished test. The backend grades the answers.
func (c *Client) SubmitTestResult(ctx context.Context, sub models.TestSubmission) (*models.TestResult, error) {
	var result models.TestResult
	if err := c.post(ctx, "/test/submit", sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTestHistory returns past test results, newest first.
func (c *Client) GetTestHistory(ctx context.Context, userID int64, limit int) []models.TestResult {
	q := userQuery(userID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return readList[models.TestResult](ctx, c, "/test/history", q)
}
