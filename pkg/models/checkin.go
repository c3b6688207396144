package models

// CheckInLog records a daily check-in. CheckInDate is YYYY-MM-DD.
type CheckInLog struct {
	ID            int64   `json:"checkin_id" db:"checkin_id"`
	UserID        int64   `json:"user_id" db:"user_id"`
	CheckInDate   string  `json:"checkin_date" db:"checkin_date"`
	WordCount     int     `json:"word_count" db:"word_count"`
	StudyDuration int     `json:"study_duration" db:"study_duration"`
	AccuracyRate  float64 `json:"accuracy_rate" db:"accuracy_rate"`
}

// CheckInRequest is the body of POST /check-in/today.
type CheckInRequest struct {
	UserID        int64   `json:"user_id"`
	WordCount     int     `json:"word_count"`
	StudyDuration int     `json:"study_duration"`
	AccuracyRate  float64 `json:"accuracy_rate"`
}

// CheckInResponse acknowledges a check-in. AlreadyCheckedIn is set when
// today's record existed before the call.
type CheckInResponse struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message,omitempty"`
	AlreadyCheckedIn bool        `json:"already_checked_in"`
	CheckIn          *CheckInLog `json:"checkin,omitempty"`
}

// CheckInStats summarises a user's check-in history.
type CheckInStats struct {
	CurrentStreak     int `json:"currentStreak"`
	LongestStreak     int `json:"longestStreak"`
	TotalCheckIns     int `json:"totalCheckIns"`
	ThisMonthCheckIns int `json:"thisMonthCheckIns"`
}
