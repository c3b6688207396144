package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const reviewColumns = "schedule_id, user_id, word_id, review_date, repeat_count, memory_strength, interval_days"

// ReviewRepository handles database operations for review schedules
type ReviewRepository struct {
	db    *sqlx.DB
	words *WordRepository
}

// NewReviewRepository creates a new repository instance
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db, words: NewWordRepository(db)}
}

// Save inserts the schedule of (user, word) or overwrites the existing one.
func (r *ReviewRepository) Save(ctx context.Context, rs *models.ReviewSchedule) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var id int64
		err := tx.GetContext(ctx, &id,
			tx.Rebind("SELECT schedule_id FROM review_schedules WHERE user_id = ? AND word_id = ?"),
			rs.UserID, rs.WordID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id, err = insertID(ctx, tx,
				`INSERT INTO review_schedules (user_id, word_id, review_date, repeat_count, memory_strength, interval_days)
				VALUES (?, ?, ?, ?, ?, ?)`,
				"schedule_id", rs.UserID, rs.WordID, rs.ReviewDate, rs.RepeatCount, rs.MemoryStrength, rs.IntervalDays)
			if err != nil {
				return fmt.Errorf("failed to create review schedule: %w", err)
			}
			rs.ID = id
			return nil
		case err != nil:
			return fmt.Errorf("failed to get review schedule: %w", err)
		}
		rs.ID = id
		return r.update(ctx, tx, rs)
	})
}

// Update overwrites the schedule with rs.ID.
func (r *ReviewRepository) Update(ctx context.Context, rs *models.ReviewSchedule) error {
	return r.update(ctx, r.db, rs)
}

func (r *ReviewRepository) update(ctx context.Context, q sqlx.ExtContext, rs *models.ReviewSchedule) error {
	err := execAffected(ctx, q,
		`UPDATE review_schedules SET review_date = ?, repeat_count = ?, memory_strength = ?, interval_days = ?
		WHERE schedule_id = ?`,
		rs.ReviewDate, rs.RepeatCount, rs.MemoryStrength, rs.IntervalDays, rs.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update review schedule: %w", err)
	}
	return err
}

// GetByID returns one schedule.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.ReviewSchedule, error) {
	var rs models.ReviewSchedule
	query := r.db.Rebind("SELECT " + reviewColumns + " FROM review_schedules WHERE schedule_id = ?")
	if err := r.db.GetContext(ctx, &rs, query, id); err != nil {
		return nil, notFound(err, "failed to get review schedule %d", id)
	}
	return &rs, nil
}

// ListByUser returns a user's schedules with their words, earliest due first.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]models.ReviewSchedule, error) {
	schedules := []models.ReviewSchedule{}
	query := r.db.Rebind("SELECT " + reviewColumns + " FROM review_schedules WHERE user_id = ? ORDER BY review_date, schedule_id")
	if err := r.db.SelectContext(ctx, &schedules, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get review schedules: %w", err)
	}

	ids := make([]int64, len(schedules))
	for i, s := range schedules {
		ids[i] = s.WordID
	}
	words, err := r.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		if w, ok := words[schedules[i].WordID]; ok {
			schedules[i].Word = &w
		}
	}
	return schedules, nil
}
