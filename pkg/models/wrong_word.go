package models

// Error types recorded in the error book.
const (
	ErrorTypeMeaning  = "meaning"
	ErrorTypeSpelling = "spelling"
)

// WrongWord is an error-book record: how often and how a user got a word wrong.
type WrongWord struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	WordID        int64     `json:"word_id" db:"word_id"`
	WrongCount    int       `json:"wrong_count" db:"wrong_count"`
	LastWrongTime Timestamp `json:"last_wrong_time" db:"last_wrong_time"`
	ErrorType     string    `json:"error_type" db:"error_type"`
	UserAnswer    string    `json:"user_answer,omitempty" db:"user_answer"`
	CorrectAnswer string    `json:"correct_answer,omitempty" db:"correct_answer"`
	Word          *Word     `json:"word,omitempty"`
}

// WrongWordRequest is the body of POST /wrongwords/add.
type WrongWordRequest struct {
	UserID        int64  `json:"user_id"`
	WordID        int64  `json:"word_id"`
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	ErrorType     string `json:"error_type,omitempty"`
}

// MasteredRequest is the body of POST /wrongwords/mastered.
type MasteredRequest struct {
	UserID int64 `json:"user_id"`
	WordID int64 `json:"word_id"`
}
