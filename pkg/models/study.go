package models

// StudyStatus is the outcome recorded for one study action.
type StudyStatus string

const (
	StatusKnown    StudyStatus = "known"
	StatusUnknown  StudyStatus = "unknown"
	StatusLearning StudyStatus = "learning"
)

// Valid reports whether s is a recognised outcome.
func (s StudyStatus) Valid() bool {
	switch s {
	case StatusKnown, StatusUnknown, StatusLearning:
		return true
	}
	return false
}

// StudyLog is an immutable record of one study action.
type StudyLog struct {
	ID           int64       `json:"log_id" db:"log_id"`
	UserID       int64       `json:"user_id" db:"user_id"`
	WordID       int64       `json:"word_id" db:"word_id"`
	StudyTime    Timestamp   `json:"study_time" db:"study_time"`
	Status       StudyStatus `json:"status" db:"status"`
	AccuracyRate *float64    `json:"accuracy_rate,omitempty" db:"accuracy_rate"`
}

// Accuracy returns the recorded accuracy in percent, or 0 when none was recorded.
func (l StudyLog) Accuracy() float64 {
	if l.AccuracyRate == nil {
		return 0
	}
	return *l.AccuracyRate
}

// StudyLogRequest is the body of POST /study/log.
type StudyLogRequest struct {
	UserID       int64       `json:"user_id"`
	WordID       int64       `json:"word_id"`
	Status       StudyStatus `json:"status"`
	AccuracyRate *float64    `json:"accuracy_rate,omitempty"`
}
