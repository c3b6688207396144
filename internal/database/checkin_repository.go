package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const checkInColumns = "checkin_id, user_id, checkin_date, word_count, study_duration, accuracy_rate"

// CheckInRepository stores daily check-ins.
type CheckInRepository struct {
	db *sqlx.DB
}

// NewCheckInRepository creates a new repository instance
func NewCheckInRepository(db *sqlx.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Create records a check-in for c.CheckInDate. When the user already
// checked in that day the existing record is returned with ErrConflict.
func (r *CheckInRepository) Create(ctx context.Context, c *models.CheckInLog) (*models.CheckInLog, error) {
	existing, err := r.GetByDate(ctx, c.UserID, c.CheckInDate)
	if err == nil {
		return existing, ErrConflict
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := insertID(ctx, r.db,
		`INSERT INTO checkin_logs (user_id, checkin_date, word_count, study_duration, accuracy_rate)
		VALUES (?, ?, ?, ?, ?)`,
		"checkin_id", c.UserID, c.CheckInDate, c.WordCount, c.StudyDuration, c.AccuracyRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}
	created := *c
	created.ID = id
	return &created, nil
}

// GetByDate returns the check-in of a user on date (YYYY-MM-DD).
func (r *CheckInRepository) GetByDate(ctx context.Context, userID int64, date string) (*models.CheckInLog, error) {
	var c models.CheckInLog
	query := r.db.Rebind("SELECT " + checkInColumns + " FROM checkin_logs WHERE user_id = ? AND checkin_date = ?")
	if err := r.db.GetContext(ctx, &c, query, userID, date); err != nil {
		return nil, notFound(err, "failed to get check-in")
	}
	return &c, nil
}

// ListByUser returns a user's check-ins, newest first. A positive limit
// caps the result.
func (r *CheckInRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.CheckInLog, error) {
	query := "SELECT " + checkInColumns + " FROM checkin_logs WHERE user_id = ? ORDER BY checkin_date DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	logs := []models.CheckInLog{}
	if err := r.db.SelectContext(ctx, &logs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get check-ins: %w", err)
	}
	return logs, nil
}
