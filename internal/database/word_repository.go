package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const wordColumns = "w.word_id, w.word, w.difficulty, COALESCE(w.list_id, 0) AS list_id"

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// Create inserts a word with its translations and phrases.
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	word.Word = strings.TrimSpace(word.Word)
	if word.Word == "" {
		return fmt.Errorf("word is required")
	}
	if word.ListID == 0 {
		return fmt.Errorf("list_id is required")
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := insertID(ctx, tx,
			"INSERT INTO words (word, difficulty, list_id) VALUES (?, ?, ?)",
			"word_id", word.Word, word.Difficulty, word.ListID)
		if err != nil {
			return fmt.Errorf("failed to create word: %w", err)
		}
		word.ID = id
		return insertDetails(ctx, tx, word)
	})
}

// Update replaces a word's text, difficulty, translations and phrases.
func (r *WordRepository) Update(ctx context.Context, word *models.Word) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := execAffected(ctx, tx, "UPDATE words SET word = ?, difficulty = ? WHERE word_id = ?",
			word.Word, word.Difficulty, word.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return err
			}
			return fmt.Errorf("failed to update word: %w", err)
		}
		for _, table := range []string{"word_translations", "word_phrases"} {
			if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+table+" WHERE word_id = ?"), word.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return insertDetails(ctx, tx, word)
	})
}

func insertDetails(ctx context.Context, tx *sqlx.Tx, word *models.Word) error {
	for i, t := range word.Translations {
		_, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO word_translations (word_id, position, translation, word_type) VALUES (?, ?, ?, ?)"),
			word.ID, i, t.Translation, t.Type)
		if err != nil {
			return fmt.Errorf("failed to add translation: %w", err)
		}
	}
	for i, p := range word.Phrases {
		_, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO word_phrases (word_id, position, phrase, translation) VALUES (?, ?, ?, ?)"),
			word.ID, i, p.Phrase, p.Translation)
		if err != nil {
			return fmt.Errorf("failed to add phrase: %w", err)
		}
	}
	return nil
}

// Delete removes a word.
func (r *WordRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffected(ctx, r.db, "DELETE FROM words WHERE word_id = ?", id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}

// GetByID returns a word with translations and phrases.
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	query := r.db.Rebind("SELECT " + wordColumns + " FROM words w WHERE w.word_id = ?")
	if err := r.db.GetContext(ctx, &word, query, id); err != nil {
		return nil, notFound(err, "failed to get word %d", id)
	}
	words := []models.Word{word}
	if err := r.attach(ctx, words); err != nil {
		return nil, err
	}
	return &words[0], nil
}

// List returns the words of a list, or all words when listID is 0. A
// positive limit caps the result.
func (r *WordRepository) List(ctx context.Context, listID int64, limit int) ([]models.Word, error) {
	query := "SELECT " + wordColumns + " FROM words w"
	args := []any{}
	if listID > 0 {
		query += " WHERE w.list_id = ?"
		args = append(args, listID)
	}
	query += " ORDER BY w.word_id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

// ListByDifficulty returns the words whose own difficulty, or whose list's
// difficulty, equals difficulty. An empty difficulty returns every word.
func (r *WordRepository) ListByDifficulty(ctx context.Context, difficulty string) ([]models.Word, error) {
	if difficulty == "" {
		return r.List(ctx, 0, 0)
	}
	query := "SELECT " + wordColumns + ` FROM words w
		LEFT JOIN word_lists l ON l.list_id = w.list_id
		WHERE w.difficulty = ? OR l.difficulty = ?
		ORDER BY w.word_id`
	return r.query(ctx, query, difficulty, difficulty)
}

// GetByIDs returns the words with the given ids keyed by id.
func (r *WordRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]models.Word, error) {
	out := make(map[int64]models.Word, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In("SELECT "+wordColumns+" FROM words w WHERE w.word_id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	words, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		out[w.ID] = w
	}
	return out, nil
}

// Search matches word text and translations case-insensitively.
func (r *WordRepository) Search(ctx context.Context, q string, limit int) ([]models.Word, error) {
	query := "SELECT DISTINCT " + wordColumns + ` FROM words w
		LEFT JOIN word_translations t ON t.word_id = w.word_id
		WHERE LOWER(w.word) LIKE ? ESCAPE '\' OR LOWER(t.translation) LIKE ? ESCAPE '\'
		ORDER BY w.word LIMIT ?`
	p := likePattern(q)
	return r.query(ctx, query, p, p, limit)
}

func (r *WordRepository) query(ctx context.Context, query string, args ...any) ([]models.Word, error) {
	words := []models.Word{}
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	if err := r.attach(ctx, words); err != nil {
		return nil, err
	}
	return words, nil
}

type translationRow struct {
	WordID int64 `db:"word_id"`
	models.Translation
}

type phraseRow struct {
	WordID int64 `db:"word_id"`
	models.Phrase
}

// attach loads translations and phrases for words in two queries.
func (r *WordRepository) attach(ctx context.Context, words []models.Word) error {
	if len(words) == 0 {
		return nil
	}
	ids := make([]int64, len(words))
	index := make(map[int64]int, len(words))
	for i := range words {
		ids[i] = words[i].ID
		index[words[i].ID] = i
		words[i].Translations = []models.Translation{}
		words[i].Phrases = []models.Phrase{}
	}

	query, args, err := sqlx.In(
		"SELECT word_id, translation, word_type FROM word_translations WHERE word_id IN (?) ORDER BY word_id, position", ids)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	var translations []translationRow
	if err := r.db.SelectContext(ctx, &translations, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to get translations: %w", err)
	}
	for _, t := range translations {
		i := index[t.WordID]
		words[i].Translations = append(words[i].Translations, t.Translation)
	}

	query, args, err = sqlx.In(
		"SELECT word_id, phrase, translation FROM word_phrases WHERE word_id IN (?) ORDER BY word_id, position", ids)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	var phrases []phraseRow
	if err := r.db.SelectContext(ctx, &phrases, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to get phrases: %w", err)
	}
	for _, p := range phrases {
		i := index[p.WordID]
		words[i].Phrases = append(words[i].Phrases, p.Phrase)
	}
	return nil
}
