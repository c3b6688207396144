package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const wrongWordColumns = "id, user_id, word_id, wrong_count, last_wrong_time, error_type, user_answer, correct_answer"

// WrongWordRepository stores each user's error book.
type WrongWordRepository struct {
	db    *sqlx.DB
	words *WordRepository
}

// NewWrongWordRepository creates a new repository instance
func NewWrongWordRepository(db *sqlx.DB) *WrongWordRepository {
	return &WrongWordRepository{db: db, words: NewWordRepository(db)}
}

// Add records a mistake. A repeated mistake on the same word increments
// wrong_count and replaces the answers and error type.
func (r *WrongWordRepository) Add(ctx context.Context, req models.WrongWordRequest, at time.Time) (*models.WrongWord, error) {
	if req.ErrorType == "" {
		req.ErrorType = models.ErrorTypeMeaning
	}
	var id int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &id,
			tx.Rebind("SELECT id FROM wrong_words WHERE user_id = ? AND word_id = ?"), req.UserID, req.WordID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id, err = insertID(ctx, tx,
				`INSERT INTO wrong_words (user_id, word_id, wrong_count, last_wrong_time, error_type, user_answer, correct_answer)
				VALUES (?, ?, 1, ?, ?, ?, ?)`,
				"id", req.UserID, req.WordID, at, req.ErrorType, req.UserAnswer, req.CorrectAnswer)
			if err != nil {
				return fmt.Errorf("failed to create wrong word: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to get wrong word: %w", err)
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE wrong_words SET wrong_count = wrong_count + 1,
			last_wrong_time = ?, error_type = ?, user_answer = ?, correct_answer = ? WHERE id = ?`),
			at, req.ErrorType, req.UserAnswer, req.CorrectAnswer, id)
		if err != nil {
			return fmt.Errorf("failed to update wrong word: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var ww models.WrongWord
	query := r.db.Rebind("SELECT " + wrongWordColumns + " FROM wrong_words WHERE id = ?")
	if err := r.db.GetContext(ctx, &ww, query, id); err != nil {
		return nil, notFound(err, "failed to get wrong word %d", id)
	}
	return &ww, nil
}

// ListByUser returns a user's error book with words, most frequent first.
func (r *WrongWordRepository) ListByUser(ctx context.Context, userID int64) ([]models.WrongWord, error) {
	records := []models.WrongWord{}
	query := r.db.Rebind("SELECT " + wrongWordColumns + " FROM wrong_words WHERE user_id = ? ORDER BY wrong_count DESC, id")
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get wrong words: %w", err)
	}
	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.WordID
	}
	words, err := r.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if w, ok := words[records[i].WordID]; ok {
			records[i].Word = &w
		}
	}
	return records, nil
}

// Delete removes one record.
func (r *WrongWordRepository) Delete(ctx context.Context, id int64) error {
	err := execAffected(ctx, r.db, "DELETE FROM wrong_words WHERE id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete wrong word: %w", err)
	}
	return err
}

// DeleteByWord clears a word from a user's error book.
func (r *WrongWordRepository) DeleteByWord(ctx context.Context, userID, wordID int64) error {
	err := execAffected(ctx, r.db, "DELETE FROM wrong_words WHERE user_id = ? AND word_id = ?", userID, wordID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete wrong word: %w", err)
	}
	return err
}
