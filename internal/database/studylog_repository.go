package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const studyLogColumns = "log_id, user_id, word_id, study_time, status, accuracy_rate"

// StudyLogRepository stores the study history of users.
type StudyLogRepository struct {
	db *sqlx.DB
}

// NewStudyLogRepository creates a new repository instance
func NewStudyLogRepository(db *sqlx.DB) *StudyLogRepository {
	return &StudyLogRepository{db: db}
}

// Create appends a study log. A zero StudyTime is set to now.
func (r *StudyLogRepository) Create(ctx context.Context, log *models.StudyLog) error {
	if !log.Status.Valid() {
		return fmt.Errorf("unknown study status %q", log.Status)
	}
	if log.StudyTime.IsZero() {
		log.StudyTime = models.NewTimestamp(time.Now())
	}
	id, err := insertID(ctx, r.db,
		"INSERT INTO study_logs (user_id, word_id, study_time, status, accuracy_rate) VALUES (?, ?, ?, ?, ?)",
		"log_id", log.UserID, log.WordID, log.StudyTime, log.Status, log.AccuracyRate)
	if err != nil {
		return fmt.Errorf("failed to create study log: %w", err)
	}
	log.ID = id
	return nil
}

// ListByUser returns a user's logs, newest first. A positive limit caps
// the result.
func (r *StudyLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.StudyLog, error) {
	query := "SELECT " + studyLogColumns + " FROM study_logs WHERE user_id = ? ORDER BY study_time DESC, log_id DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	logs := []models.StudyLog{}
	if err := r.db.SelectContext(ctx, &logs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get study logs: %w", err)
	}
	return logs, nil
}

// ListAll returns every log. Used by the global statistics.
func (r *StudyLogRepository) ListAll(ctx context.Context) ([]models.StudyLog, error) {
	logs := []models.StudyLog{}
	if err := r.db.SelectContext(ctx, &logs, "SELECT "+studyLogColumns+" FROM study_logs ORDER BY log_id"); err != nil {
		return nil, fmt.Errorf("failed to get study logs: %w", err)
	}
	return logs, nil
}
