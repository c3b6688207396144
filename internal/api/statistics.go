package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/wordbook/internal/stats"
	"github.com/example/wordbook/pkg/models"
)

// GetMasteryStatistics returns total and mastered word counts, or the zero
// summary when the backend cannot be read.
func (c *Client) GetMasteryStatistics(ctx context.Context, userID int64) models.MasterySummary {
	var summary models.MasterySummary
	if err := c.get(ctx, idPath("/statistics/mastery", userID), nil, &summary); err != nil {
		c.logger.Warn("read failed, using empty result", zap.String("path", "/statistics/mastery"), zap.Error(err))
		return models.MasterySummary{}
	}
	return summary
}

// GetCategoryStatistics returns per-category progress.
func (c *Client) GetCategoryStatistics(ctx context.Context, userID int64) []models.CategoryStat {
	return readList[models.CategoryStat](ctx, c, idPath("/statistics/categories", userID), nil)
}

// GetDailyStatistics returns per-day activity for the last days days.
func (c *Client) GetDailyStatistics(ctx context.Context, userID int64, days int) []models.DailyStat {
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {strconv.Itoa(days)}}
	}
	return readList[models.DailyStat](ctx, c, idPath("/statistics/daily", userID), q)
}

// GetStudyStatistics fetches mastery, category and study-log data in
// parallel and folds them into the statistics view for now.
func (c *Client) GetStudyStatistics(ctx context.Context, userID int64, now time.Time) stats.Statistics {
	var (
		mastery    models.MasterySummary
		categories []models.CategoryStat
		logs       []models.StudyLog
		g          errgroup.Group
	)
	g.Go(func() error {
		mastery = c.GetMasteryStatistics(ctx, userID)
		return nil
	})
	g.Go(func() error {
		categories = c.GetCategoryStatistics(ctx, userID)
		return nil
	})
	g.Go(func() error {
		logs = c.GetStudyLogs(ctx, userID, c.statsLogLimit)
		return nil
	})
	_ = g.Wait()

	return stats.Aggregate(logs, mastery, categories, now)
}

// GetDashboardData returns the dashboard summary of a user.
func (c *Client) GetDashboardData(ctx context.Context, userID int64) (*models.DashboardData, error) {
	var data models.DashboardData
	if err := c.get(ctx, idPath("/dashboard", userID), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetGlobalStatistics returns the admin overview.
func (c *Client) GetGlobalStatistics(ctx context.Context) (*models.GlobalStatistics, error) {
	var data models.GlobalStatistics
	if err := c.get(ctx, "/statistics/global", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
