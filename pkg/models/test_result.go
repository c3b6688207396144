package models

// Question types.
const (
	QuestionEnToCn = "en-to-cn"
	QuestionCnToEn = "cn-to-en"
)

// TestQuestion is a multiple-choice question about one word. ID is the word id.
type TestQuestion struct {
	ID         int64    `json:"id"`
	Type       string   `json:"type"`
	Question   string   `json:"question"`
	Word       string   `json:"word,omitempty"`
	Answer     string   `json:"answer"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// TestResult represents the result of a completed test
type TestResult struct {
	ID             int64     `json:"test_id" db:"test_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Score          float64   `json:"score" db:"score"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	TestDate       Timestamp `json:"test_date" db:"test_date"`
	TestType       string    `json:"test_type" db:"test_type"`
}

// TestSubmission is the body of POST /test/submit. Answers are positional
// with Questions.
type TestSubmission struct {
	UserID         int64          `json:"user_id"`
	Questions      []TestQuestion `json:"questions"`
	Answers        []string       `json:"answers"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	TestType       string         `json:"test_type"`
}
