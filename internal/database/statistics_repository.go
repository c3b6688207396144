package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/stats"
	"github.com/example/wordbook/pkg/models"
)

const (
	// DefaultCategory labels words whose list has no difficulty.
	DefaultCategory = "uncategorized"
	// WeeklyGoal is the number of study actions the dashboard aims for per week.
	WeeklyGoal = 200

	minutesPerLog    = 5
	recentWordsLimit = 5
	upcomingReviews  = 3
	popularWordLimit = 5
)

// Mastery returns the level of a word from its study outcomes: at least 90%
// known is mastered, at least 70% is learning.
func Mastery(reviews, known int) string {
	if reviews == 0 {
		return models.MasteryNotStarted
	}
	ratio := float64(known) / float64(reviews)
	switch {
	case ratio >= 0.9:
		return models.MasteryMastered
	case ratio >= 0.7:
		return models.MasteryLearning
	default:
		return models.MasteryNotStarted
	}
}

type wordStat struct {
	WordID     int64            `db:"word_id"`
	Word       string           `db:"word"`
	Category   string           `db:"category"`
	Reviews    int              `db:"reviews"`
	Known      int              `db:"known"`
	LastReview models.Timestamp `db:"last_review"`
}

// StatisticsRepository derives statistics from study logs, check-ins and
// review schedules.
type StatisticsRepository struct {
	db       *sqlx.DB
	logs     *StudyLogRepository
	checkIns *CheckInRepository
	reviews  *ReviewRepository
	words    *WordRepository
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{
		db:       db,
		logs:     NewStudyLogRepository(db),
		checkIns: NewCheckInRepository(db),
		reviews:  NewReviewRepository(db),
		words:    NewWordRepository(db),
	}
}

func (r *StatisticsRepository) wordStats(ctx context.Context, userID int64) ([]wordStat, error) {
	query := r.db.Rebind(`
		SELECT w.word_id, w.word,
			COALESCE(NULLIF(l.difficulty, ''), ?) AS category,
			COUNT(s.log_id) AS reviews,
			COALESCE(SUM(CASE WHEN s.status = ? THEN 1 ELSE 0 END), 0) AS known,
			MAX(s.study_time) AS last_review
		FROM words w
		LEFT JOIN word_lists l ON l.list_id = w.list_id
		LEFT JOIN study_logs s ON s.word_id = w.word_id AND s.user_id = ?
		GROUP BY w.word_id, w.word, l.difficulty
		ORDER BY w.word_id`)
	var out []wordStat
	if err := r.db.SelectContext(ctx, &out, query, DefaultCategory, models.StatusKnown, userID); err != nil {
		return nil, fmt.Errorf("failed to get word statistics: %w", err)
	}
	return out, nil
}

// Mastery summarises how many words a user has mastered. Words lists the
// limit most recently studied words.
func (r *StatisticsRepository) Mastery(ctx context.Context, userID int64, limit int) (*models.MasterySummary, error) {
	ws, err := r.wordStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &models.MasterySummary{TotalWords: len(ws), Words: []models.WordMastery{}}
	for _, w := range ws {
		level := Mastery(w.Reviews, w.Known)
		if level == models.MasteryMastered {
			summary.MasteredWords++
		}
		if w.Reviews == 0 {
			continue
		}
		summary.Words = append(summary.Words, models.WordMastery{
			WordID:         w.WordID,
			Word:           w.Word,
			MasteryLevel:   level,
			LastReviewDate: w.LastReview,
			ReviewCount:    w.Reviews,
			AccuracyRate:   float64(w.Known) / float64(w.Reviews) * 100,
		})
	}
	sort.SliceStable(summary.Words, func(i, j int) bool {
		return summary.Words[i].LastReviewDate.After(summary.Words[j].LastReviewDate.Time)
	})
	if limit > 0 && len(summary.Words) > limit {
		summary.Words = summary.Words[:limit]
	}
	return summary, nil
}

// Categories groups a user's word mastery by list difficulty.
func (r *StatisticsRepository) Categories(ctx context.Context, userID int64) ([]models.CategoryStat, error) {
	ws, err := r.wordStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	byName := map[string]*models.CategoryStat{}
	for _, w := range ws {
		c, ok := byName[w.Category]
		if !ok {
			c = &models.CategoryStat{Category: w.Category}
			byName[w.Category] = c
		}
		c.WordCount++
		switch Mastery(w.Reviews, w.Known) {
		case models.MasteryMastered:
			c.MasteredCount++
		case models.MasteryLearning:
			c.LearningCount++
		default:
			c.NotStartedCount++
		}
	}

	out := make([]models.CategoryStat, 0, len(byName))
	for _, c := range byName {
		c.Progress = float64(c.MasteredCount) / float64(c.WordCount) * 100
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Daily returns per-day activity for the last days calendar days ending
// with now's day, newest first. Days without activity are omitted.
func (r *StatisticsRepository) Daily(ctx context.Context, userID int64, days int, now time.Time) ([]models.DailyStat, error) {
	if days <= 0 {
		days = 7
	}
	logs, err := r.logs.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	loc := now.Location()
	start := stats.Date(now, loc).AddDate(0, 0, -(days - 1))

	type bucket struct {
		words map[int64]struct{}
		known int
		total int
	}
	buckets := map[string]*bucket{}
	for _, l := range logs {
		date := stats.Date(l.StudyTime.Time, loc)
		if date.Before(start) {
			continue
		}
		key := date.Format(models.DateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{words: map[int64]struct{}{}}
			buckets[key] = b
		}
		b.words[l.WordID] = struct{}{}
		b.total++
		if l.Status == models.StatusKnown {
			b.known++
		}
	}

	out := make([]models.DailyStat, 0, len(buckets))
	for date, b := range buckets {
		out = append(out, models.DailyStat{
			Date:         date,
			WordsStudied: len(b.words),
			AccuracyRate: float64(b.known) / float64(b.total) * 100,
			TimeSpent:    b.total * minutesPerLog,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// CheckInStats computes streaks and counts over a user's check-ins.
func (r *StatisticsRepository) CheckInStats(ctx context.Context, userID int64, now time.Time) (*models.CheckInStats, error) {
	logs, err := r.checkIns.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	days := checkInDays(logs)
	month := now.Format("2006-01")
	st := &models.CheckInStats{
		CurrentStreak: stats.CurrentStreak(days, now),
		LongestStreak: stats.LongestRun(days),
		TotalCheckIns: len(logs),
	}
	for _, l := range logs {
		if len(l.CheckInDate) >= 7 && l.CheckInDate[:7] == month {
			st.ThisMonthCheckIns++
		}
	}
	return st, nil
}

// checkInDays parses check-in dates as calendar dates in UTC, the form
// stats.Days returns.
func checkInDays(logs []models.CheckInLog) []time.Time {
	times := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		t, err := time.Parse(models.DateLayout, l.CheckInDate)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	return stats.Days(times, time.UTC)
}

// Dashboard builds the dashboard summary of a user at now.
func (r *StatisticsRepository) Dashboard(ctx context.Context, userID int64, now time.Time) (*models.DashboardData, error) {
	logs, err := r.logs.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	checkIns, err := r.checkIns.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	schedules, err := r.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	mastery, err := r.Mastery(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	loc := now.Location()
	today := stats.Date(now, loc)
	weekStart := today.AddDate(0, 0, -7)

	data := &models.DashboardData{
		MasteredWords:   mastery.MasteredWords,
		WeeklyGoal:      WeeklyGoal,
		RecentWords:     []models.RecentWord{},
		UpcomingReviews: []models.UpcomingReview{},
	}

	studied := map[int64]struct{}{}
	var recentIDs []int64
	for _, l := range logs {
		date := stats.Date(l.StudyTime.Time, loc)
		if date.Equal(today) {
			data.TodayStudied++
		}
		if !date.Before(weekStart) {
			data.WeeklyProgress++
		}
		if _, ok := studied[l.WordID]; !ok {
			studied[l.WordID] = struct{}{}
			if len(recentIDs) < recentWordsLimit {
				recentIDs = append(recentIDs, l.WordID)
			}
		}
	}
	data.TotalWords = len(studied)

	words, err := r.words.GetByIDs(ctx, recentIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range recentIDs {
		if w, ok := words[id]; ok {
			data.RecentWords = append(data.RecentWords, models.RecentWord{WordID: id, Word: w.Word})
		}
	}

	data.Streak = stats.LongestRun(checkInDays(checkIns))
	if len(checkIns) > 0 {
		var sum float64
		for _, c := range checkIns {
			sum += c.AccuracyRate
		}
		data.Accuracy = math.Trunc(sum / float64(len(checkIns)))
	}

	for _, s := range schedules {
		if !stats.Date(s.ReviewDate.Time, loc).After(today) {
			data.TodayReview++
			continue
		}
		if len(data.UpcomingReviews) < upcomingReviews && s.Word != nil {
			data.UpcomingReviews = append(data.UpcomingReviews, models.UpcomingReview{
				Word:  s.Word.Word,
				Type:  reviewLabel(s.RepeatCount),
				Count: 1,
			})
		}
	}
	for len(data.UpcomingReviews) < upcomingReviews {
		data.UpcomingReviews = append(data.UpcomingReviews, models.UpcomingReview{Word: "-", Type: reviewLabel(0)})
	}
	return data, nil
}

func reviewLabel(repeatCount int) string {
	return fmt.Sprintf("review #%d", repeatCount+1)
}

// Global builds the administrator overview at now.
func (r *StatisticsRepository) Global(ctx context.Context, now time.Time) (*models.GlobalStatistics, error) {
	g := &models.GlobalStatistics{PopularWords: []models.Word{}, RecentActivity: []models.ActivityCount{}}
	counts := []struct {
		dst   *int
		table string
	}{
		{&g.TotalUsers, "users"},
		{&g.TotalWords, "words"},
		{&g.TotalWordLists, "word_lists"},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dst, "SELECT COUNT(*) FROM "+c.table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	logs, err := r.logs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	loc := now.Location()
	today := stats.Date(now, loc)
	daily, weekly, monthly, all := map[int64]bool{}, map[int64]bool{}, map[int64]bool{}, map[int64]bool{}
	perWord := map[int64]int{}
	perDay := map[string]int{}
	known := 0
	for _, l := range logs {
		date := stats.Date(l.StudyTime.Time, loc)
		all[l.UserID] = true
		if !date.Before(today) {
			daily[l.UserID] = true
		}
		if !date.Before(today.AddDate(0, 0, -6)) {
			weekly[l.UserID] = true
			perDay[date.Format(models.DateLayout)]++
		}
		if !date.Before(today.AddDate(0, 0, -29)) {
			monthly[l.UserID] = true
		}
		if l.Status == models.StatusKnown {
			known++
		}
		perWord[l.WordID]++
	}
	g.ActiveUsers = len(all)
	g.DailyActiveUsers = len(daily)
	g.WeeklyActiveUsers = len(weekly)
	g.MonthlyActiveUsers = len(monthly)
	if len(logs) > 0 {
		g.AverageAccuracy = float64(known) / float64(len(logs)) * 100
	}

	for i := 6; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(models.DateLayout)
		g.RecentActivity = append(g.RecentActivity, models.ActivityCount{Type: "study", Count: perDay[date], Date: date})
	}

	ids := make([]int64, 0, len(perWord))
	for id := range perWord {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if perWord[ids[i]] != perWord[ids[j]] {
			return perWord[ids[i]] > perWord[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > popularWordLimit {
		ids = ids[:popularWordLimit]
	}
	words, err := r.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if w, ok := words[id]; ok {
			g.PopularWords = append(g.PopularWords, w)
		}
	}
	return g, nil
}
