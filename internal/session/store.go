// Package session keeps the logged-in user in client-local storage and
// carries it through request contexts.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/wordbook/pkg/models"
)

// DefaultKey is the slot used by the command-line client.
const DefaultKey = "current_user"

// ErrNoSession is returned when nobody is logged in under a key.
var ErrNoSession = errors.New("not logged in")

// Session is the logged-in user of one client slot.
type Session struct {
	ID        string
	User      models.User
	CreatedAt time.Time
}

type sessionRow struct {
	Key       string    `db:"key"`
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Role      string    `db:"role"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

func (r sessionRow) session() *Session {
	return &Session{
		ID: r.ID,
		User: models.User{
			ID:       r.UserID,
			Username: r.Username,
			Role:     models.Role(r.Role),
			Email:    r.Email,
		},
		CreatedAt: r.CreatedAt,
	}
}

// Store persists sessions in a local SQLite file. Several slots can coexist,
// e.g. one per chat for the bot.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the session database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			role TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a fresh session for user under key, replacing any previous one.
func (s *Store) Save(ctx context.Context, key string, user models.User) (*Session, error) {
	row := sessionRow{
		Key:       key,
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Email:     user.Email,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sessions (key, id, user_id, username, role, email, created_at)
		VALUES (:key, :id, :user_id, :username, :role, :email, :created_at)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			user_id = excluded.user_id,
			username = excluded.username,
			role = excluded.role,
			email = excluded.email,
			created_at = excluded.created_at
	`, row)
	if err != nil {
		return nil, fmt.Errorf("failed to save session[%s]: %w", key, err)
	}
	return row.session(), nil
}

// Load returns the session stored under key, or ErrNoSession.
func (s *Store) Load(ctx context.Context, key string) (*Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session[%s]: %w", key, err)
	}
	return row.session(), nil
}

// Delete removes the session under key. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}

// Keyed is a session together with the slot it is stored under.
type Keyed struct {
	Key     string
	Session *Session
}

// List returns every session whose key starts with prefix, ordered by key.
func (s *Store) List(ctx context.Context, prefix string) ([]Keyed, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM sessions WHERE key LIKE ? ORDER BY key`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	out := make([]Keyed, 0, len(rows))
	for _, r := range rows {
		out = append(out, Keyed{Key: r.Key, Session: r.session()})
	}
	return out, nil
}
