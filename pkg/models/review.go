package models

// ReviewSchedule is the spaced-repetition state of one word for one user.
type ReviewSchedule struct {
	ID             int64     `json:"schedule_id" db:"schedule_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	WordID         int64     `json:"word_id" db:"word_id"`
	ReviewDate     Timestamp `json:"review_date" db:"review_date"`
	RepeatCount    int       `json:"repeat_count" db:"repeat_count"`
	MemoryStrength float64   `json:"memory_strength" db:"memory_strength"`
	IntervalDays   int       `json:"interval_days" db:"interval_days"`
	Word           *Word     `json:"word,omitempty"`
}

// ReviewScheduleRequest creates or overwrites a schedule.
type ReviewScheduleRequest struct {
	UserID         int64     `json:"user_id"`
	WordID         int64     `json:"word_id"`
	ReviewDate     Timestamp `json:"review_date"`
	RepeatCount    int       `json:"repeat_count"`
	MemoryStrength float64   `json:"memory_strength"`
}

// ReviewGrade is the body of POST /review/schedule/{id}/grade. Quality is 0..5.
type ReviewGrade struct {
	Quality int `json:"quality"`
}
