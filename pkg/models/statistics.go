package models

// Mastery levels derived from the share of "known" outcomes.
const (
	MasteryMastered   = "mastered"
	MasteryLearning   = "learning"
	MasteryNotStarted = "not_started"
)

// WordMastery is the per-word entry of the mastery summary.
type WordMastery struct {
	WordID         int64     `json:"word_id" db:"word_id"`
	Word           string    `json:"word" db:"word"`
	MasteryLevel   string    `json:"mastery_level" db:"mastery_level"`
	LastReviewDate Timestamp `json:"last_review_date" db:"last_review_date"`
	ReviewCount    int       `json:"review_count" db:"review_count"`
	AccuracyRate   float64   `json:"accuracy_rate" db:"accuracy_rate"`
}

// MasterySummary is returned by GET /statistics/mastery/{user_id}.
type MasterySummary struct {
	TotalWords    int           `json:"total_words"`
	MasteredWords int           `json:"mastered_words"`
	Words         []WordMastery `json:"words,omitempty"`
}

// CategoryStat is the per-category progress of a user. Progress is a percentage.
type CategoryStat struct {
	Category        string  `json:"category" db:"category"`
	WordCount       int     `json:"word_count" db:"word_count"`
	MasteredCount   int     `json:"mastered_count" db:"mastered_count"`
	LearningCount   int     `json:"learning_count" db:"learning_count"`
	NotStartedCount int     `json:"not_started_count" db:"not_started_count"`
	Progress        float64 `json:"progress"`
}

// DailyStat aggregates one day of study activity.
type DailyStat struct {
	Date         string  `json:"date"`
	WordsStudied int     `json:"words_studied"`
	AccuracyRate float64 `json:"accuracy_rate"`
	TimeSpent    int     `json:"time_spent"`
}

// RecentWord is a dashboard entry for a recently studied word.
type RecentWord struct {
	WordID int64  `json:"word_id" db:"word_id"`
	Word   string `json:"word" db:"word"`
}

// UpcomingReview is a dashboard entry for a word due soon.
type UpcomingReview struct {
	Word  string `json:"word"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DashboardData is returned by GET /dashboard/{user_id}.
type DashboardData struct {
	TodayStudied    int              `json:"todayStudied"`
	TotalWords      int              `json:"totalWords"`
	MasteredWords   int              `json:"masteredWords"`
	Streak          int              `json:"streak"`
	Accuracy        float64          `json:"accuracy"`
	TodayReview     int              `json:"todayReview"`
	WeeklyGoal      int              `json:"weeklyGoal"`
	WeeklyProgress  int              `json:"weeklyProgress"`
	RecentWords     []RecentWord     `json:"recentWords"`
	UpcomingReviews []UpcomingReview `json:"upcomingReviews"`
}

// ActivityCount is one point of the global recent-activity series.
type ActivityCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// GlobalStatistics is the admin overview.
type GlobalStatistics struct {
	TotalUsers         int             `json:"totalUsers"`
	TotalWords         int             `json:"totalWords"`
	TotalWordLists     int             `json:"totalWordLists"`
	ActiveUsers        int             `json:"activeUsers"`
	DailyActiveUsers   int             `json:"dailyActiveUsers"`
	WeeklyActiveUsers  int             `json:"weeklyActiveUsers"`
	MonthlyActiveUsers int             `json:"monthlyActiveUsers"`
	AverageAccuracy    float64         `json:"averageAccuracy"`
	PopularWords       []Word          `json:"popularWords"`
	RecentActivity     []ActivityCount `json:"recentActivity"`
}

// SearchResults groups matches of a global search.
type SearchResults struct {
	Words []Word     `json:"words"`
	Lists []WordList `json:"lists"`
	Users []User     `json:"users"`
}

// ExportData is a user's data dump. Only the sections requested are filled.
type ExportData struct {
	User        *User            `json:"user,omitempty"`
	WordLists   []WordList       `json:"word_lists,omitempty"`
	StudyLogs   []StudyLog       `json:"study_logs,omitempty"`
	WrongWords  []WrongWord      `json:"wrong_words,omitempty"`
	Favorites   []Word           `json:"favorites,omitempty"`
	Reviews     []ReviewSchedule `json:"reviews,omitempty"`
	CheckIns    []CheckInLog     `json:"checkins,omitempty"`
	TestResults []TestResult     `json:"test_results,omitempty"`
}
