package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const listColumns = `l.list_id, l.list_name, l.description, COALESCE(l.creator_id, 0) AS creator_id,
	l.create_time, l.is_public, l.difficulty,
	(SELECT COUNT(*) FROM words w WHERE w.list_id = l.list_id) AS word_count`

// WordListRepository handles database operations for word lists
type WordListRepository struct {
	db    *sqlx.DB
	words *WordRepository
}

// NewWordListRepository creates a new repository instance
func NewWordListRepository(db *sqlx.DB) *WordListRepository {
	return &WordListRepository{db: db, words: NewWordRepository(db)}
}

// Create inserts a list. A zero CreatorID stores no creator.
func (r *WordListRepository) Create(ctx context.Context, list *models.WordList) error {
	list.Name = strings.TrimSpace(list.Name)
	if list.Name == "" {
		return fmt.Errorf("list_name is required")
	}
	if list.CreateTime.IsZero() {
		list.CreateTime = models.NewTimestamp(time.Now().Truncate(time.Second))
	}
	var creator any
	if list.CreatorID > 0 {
		creator = list.CreatorID
	}
	id, err := insertID(ctx, r.db,
		`INSERT INTO word_lists (list_name, description, creator_id, create_time, is_public, difficulty)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"list_id", list.Name, list.Description, creator, list.CreateTime, list.IsPublic, list.Difficulty)
	if err != nil {
		return fmt.Errorf("failed to create word list: %w", err)
	}
	list.ID = id
	return nil
}

// GetByID returns a list with its words.
func (r *WordListRepository) GetByID(ctx context.Context, id int64) (*models.WordList, error) {
	var list models.WordList
	query := r.db.Rebind("SELECT " + listColumns + " FROM word_lists l WHERE l.list_id = ?")
	if err := r.db.GetContext(ctx, &list, query, id); err != nil {
		return nil, notFound(err, "failed to get word list %d", id)
	}
	words, err := r.words.List(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	list.Words = words
	return &list, nil
}

// List returns the lists a user can see: their own and the public ones.
// A zero userID returns every list.
func (r *WordListRepository) List(ctx context.Context, userID int64) ([]models.WordList, error) {
	query := "SELECT " + listColumns + " FROM word_lists l"
	args := []any{}
	if userID > 0 {
		query += " WHERE l.creator_id = ? OR l.is_public = ?"
		args = append(args, userID, true)
	}
	query += " ORDER BY l.list_id"
	lists := []models.WordList{}
	if err := r.db.SelectContext(ctx, &lists, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get word lists: %w", err)
	}
	return lists, nil
}

// Update changes a list's name, description, visibility and difficulty.
func (r *WordListRepository) Update(ctx context.Context, list *models.WordList) error {
	err := execAffected(ctx, r.db,
		"UPDATE word_lists SET list_name = ?, description = ?, is_public = ?, difficulty = ? WHERE list_id = ?",
		list.Name, list.Description, list.IsPublic, list.Difficulty, list.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update word list: %w", err)
	}
	return err
}

// Delete removes a list and its words.
func (r *WordListRepository) Delete(ctx context.Context, id int64) error {
	err := execAffected(ctx, r.db, "DELETE FROM word_lists WHERE list_id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete word list: %w", err)
	}
	return err
}

// Search matches list names and descriptions case-insensitively.
func (r *WordListRepository) Search(ctx context.Context, q string, limit int) ([]models.WordList, error) {
	query := "SELECT " + listColumns + ` FROM word_lists l
		WHERE LOWER(l.list_name) LIKE ? ESCAPE '\' OR LOWER(l.description) LIKE ? ESCAPE '\'
		ORDER BY l.list_name LIMIT ?`
	p := likePattern(q)
	lists := []models.WordList{}
	if err := r.db.SelectContext(ctx, &lists, r.db.Rebind(query), p, p, limit); err != nil {
		return nil, fmt.Errorf("failed to search word lists: %w", err)
	}
	return lists, nil
}
