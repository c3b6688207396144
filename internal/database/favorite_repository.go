package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// FavoriteRepository stores starred words.
type FavoriteRepository struct {
	db    *sqlx.DB
	words *WordRepository
}

// NewFavoriteRepository creates a new repository instance
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db, words: NewWordRepository(db)}
}

// Add stars a word. Starring it twice returns ErrConflict.
func (r *FavoriteRepository) Add(ctx context.Context, userID, wordID int64, at time.Time) error {
	var n int
	query := r.db.Rebind("SELECT COUNT(*) FROM favorite_words WHERE user_id = ? AND word_id = ?")
	if err := r.db.GetContext(ctx, &n, query, userID, wordID); err != nil {
		return fmt.Errorf("failed to check favorite: %w", err)
	}
	if n > 0 {
		return ErrConflict
	}
	_, err := insertID(ctx, r.db, "INSERT INTO favorite_words (user_id, word_id, fav_time) VALUES (?, ?, ?)",
		"fav_id", userID, wordID, at)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove unstars a word.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, wordID int64) error {
	err := execAffected(ctx, r.db, "DELETE FROM favorite_words WHERE user_id = ? AND word_id = ?", userID, wordID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return err
}

// ListWords returns the starred words of a user, most recent first.
func (r *FavoriteRepository) ListWords(ctx context.Context, userID int64) ([]models.Word, error) {
	query := "SELECT " + wordColumns + ` FROM favorite_words f
		JOIN words w ON w.word_id = f.word_id
		WHERE f.user_id = ?
		ORDER BY f.fav_time DESC, f.fav_id DESC`
	return r.words.query(ctx, query, userID)
}
