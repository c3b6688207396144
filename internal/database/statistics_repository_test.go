package database

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbook/pkg/models"
)

func TestMastery(t *testing.T) {
	tests := []struct {
		reviews, known int
		want           string
	}{
		{0, 0, models.MasteryNotStarted},
		{10, 9, models.MasteryMastered},
		{10, 10, models.MasteryMastered},
		{10, 7, models.MasteryLearning},
		{10, 8, models.MasteryLearning},
		{10, 6, models.MasteryNotStarted},
		{1, 0, models.MasteryNotStarted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mastery(tt.reviews, tt.known), "%d/%d", tt.reviews, tt.known)
	}
}

func logStudy(t *testing.T, repo *StudyLogRepository, userID, wordID int64, status models.StudyStatus, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &models.StudyLog{
		UserID: userID, WordID: wordID, Status: status, StudyTime: models.NewTimestamp(at),
	}))
}

func TestStatisticsRepository(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	ctx := context.Background()
	logs := NewStudyLogRepository(db)
	repo := NewStatisticsRepository(db)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	apple, run := fx.words[0].ID, fx.words[1].ID

	// apple: always known, mastered
	logStudy(t, logs, fx.user.ID, apple, models.StatusKnown, now.Add(-2*time.Hour))
	logStudy(t, logs, fx.user.ID, apple, models.StatusKnown, now.AddDate(0, 0, -1))
	// run: 1 of 2 known, not mastered
	logStudy(t, logs, fx.user.ID, run, models.StatusKnown, now.Add(-time.Hour))
	logStudy(t, logs, fx.user.ID, run, models.StatusUnknown, now.AddDate(0, 0, -10))

	t.Run("mastery", func(t *testing.T) {
		m, err := repo.Mastery(ctx, fx.user.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, 3, m.TotalWords)
		assert.Equal(t, 1, m.MasteredWords)
		require.Len(t, m.Words, 2)
		assert.Equal(t, "run", m.Words[0].Word)
		assert.InDelta(t, 50, m.Words[0].AccuracyRate, 1e-9)
		assert.Equal(t, models.MasteryMastered, m.Words[1].MasteryLevel)
	})

	t.Run("categories", func(t *testing.T) {
		cats, err := repo.Categories(ctx, fx.user.ID)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "easy", cats[0].Category)
		assert.Equal(t, 3, cats[0].WordCount)
		assert.Equal(t, 1, cats[0].MasteredCount)
		assert.Equal(t, 2, cats[0].NotStartedCount)
		assert.InDelta(t, 100.0/3, cats[0].Progress, 1e-9)
	})

	t.Run("daily", func(t *testing.T) {
		daily, err := repo.Daily(ctx, fx.user.ID, 7, now)
		require.NoError(t, err)
		require.Len(t, daily, 2)
		assert.Equal(t, "2024-03-15", daily[0].Date)
		assert.Equal(t, 2, daily[0].WordsStudied)
		assert.InDelta(t, 100, daily[0].AccuracyRate, 1e-9)
		assert.Equal(t, 10, daily[0].TimeSpent)
		assert.Equal(t, "2024-03-14", daily[1].Date)
	})

	t.Run("check-in stats", func(t *testing.T) {
		checkIns := NewCheckInRepository(db)
		for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-14", "2024-03-15", "2024-02-29"} {
			_, err := checkIns.Create(ctx, &models.CheckInLog{UserID: fx.user.ID, CheckInDate: d, AccuracyRate: 80})
			require.NoError(t, err)
		}
		st, err := repo.CheckInStats(ctx, fx.user.ID, now)
		require.NoError(t, err)
		assert.Equal(t, 2, st.CurrentStreak)
		assert.Equal(t, 4, st.LongestStreak)
		assert.Equal(t, 6, st.TotalCheckIns)
		assert.Equal(t, 5, st.ThisMonthCheckIns)
	})

	t.Run("dashboard", func(t *testing.T) {
		reviews := NewReviewRepository(db)
		require.NoError(t, reviews.Save(ctx, &models.ReviewSchedule{
			UserID: fx.user.ID, WordID: apple, ReviewDate: models.NewTimestamp(now.Add(-time.Hour)), MemoryStrength: 2.5,
		}))
		require.NoError(t, reviews.Save(ctx, &models.ReviewSchedule{
			UserID: fx.user.ID, WordID: run, ReviewDate: models.NewTimestamp(now.AddDate(0, 0, 3)), RepeatCount: 2, MemoryStrength: 2.5,
		}))

		d, err := repo.Dashboard(ctx, fx.user.ID, now)
		require.NoError(t, err)
		assert.Equal(t, 2, d.TodayStudied)
		assert.Equal(t, 2, d.TotalWords)
		assert.Equal(t, 1, d.MasteredWords)
		assert.Equal(t, 3, d.WeeklyProgress)
		assert.Equal(t, WeeklyGoal, d.WeeklyGoal)
		assert.Equal(t, 1, d.TodayReview)
		assert.Equal(t, 80.0, d.Accuracy)
		require.Len(t, d.UpcomingReviews, 3)
		assert.Equal(t, "run", d.UpcomingReviews[0].Word)
		assert.Equal(t, "review #3", d.UpcomingReviews[0].Type)
		assert.Equal(t, "-", d.UpcomingReviews[2].Word)
		require.Len(t, d.RecentWords, 2)
		assert.Equal(t, "run", d.RecentWords[0].Word)
	})

	t.Run("global", func(t *testing.T) {
		g, err := repo.Global(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 1, g.TotalUsers)
		assert.Equal(t, 3, g.TotalWords)
		assert.Equal(t, 1, g.TotalWordLists)
		assert.Equal(t, 1, g.DailyActiveUsers)
		assert.InDelta(t, 75, g.AverageAccuracy, 1e-9)
		require.Len(t, g.RecentActivity, 7)
		assert.Equal(t, 2, g.RecentActivity[6].Count)
		require.NotEmpty(t, g.PopularWords)
	})
}

func TestCheckInStreakAcrossMidnightDSTChange(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	ctx := context.Background()

	// Chile moves its clocks from 00:00 to 01:00 on 2024-09-08.
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	now := time.Date(2024, time.September, 10, 12, 0, 0, 0, loc)

	checkIns := NewCheckInRepository(db)
	for d := 4; d <= 10; d++ {
		date := time.Date(2024, time.September, d, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
		_, err := checkIns.Create(ctx, &models.CheckInLog{UserID: fx.user.ID, CheckInDate: date, AccuracyRate: 90})
		require.NoError(t, err)
	}

	repo := NewStatisticsRepository(db)
	st, err := repo.CheckInStats(ctx, fx.user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 7, st.CurrentStreak)
	assert.Equal(t, 7, st.LongestStreak)

	d, err := repo.Dashboard(ctx, fx.user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 7, d.Streak)
}
