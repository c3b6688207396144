package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// TestResultRepository handles database operations for test results
type TestResultRepository struct {
	db *sqlx.DB
}

// NewTestResultRepository creates a new repository instance
func NewTestResultRepository(db *sqlx.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

// Create stores a finished test.
func (r *TestResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	id, err := insertID(ctx, r.db,
		`INSERT INTO test_results (user_id, score, total_questions, correct_answers, test_date, test_type)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"test_id", result.UserID, result.Score, result.TotalQuestions, result.CorrectAnswers, result.TestDate, result.TestType)
	if err != nil {
		return fmt.Errorf("failed to save test result: %w", err)
	}
	result.ID = id
	return nil
}

// ListByUser returns a user's results, newest first.
func (r *TestResultRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.TestResult, error) {
	query := `SELECT test_id, user_id, score, total_questions, correct_answers, test_date, test_type
		FROM test_results WHERE user_id = ? ORDER BY test_date DESC, test_id DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	results := []models.TestResult{}
	if err := r.db.SelectContext(ctx, &results, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}
	return results, nil
}
