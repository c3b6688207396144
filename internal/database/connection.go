package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultSQLitePath is used when the sqlite3 driver is selected without a DSN.
const DefaultSQLitePath = "data/wordbook.db"

// Connect opens the backend database and makes sure the schema exists.
// driver is "sqlite3" or "postgres".
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite3":
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates the tables and indexes if they don't exist.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "SERIAL PRIMARY KEY"
	}
	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{id}}", idColumn)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w\n%s", err, stmt)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id {{id}},
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student',
		email TEXT NOT NULL DEFAULT '',
		create_time TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS word_lists (
		list_id {{id}},
		list_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		creator_id INTEGER REFERENCES users(user_id) ON DELETE SET NULL,
		create_time TIMESTAMP NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		difficulty TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		word_id {{id}},
		word TEXT NOT NULL,
		difficulty TEXT NOT NULL DEFAULT '',
		list_id INTEGER REFERENCES word_lists(list_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_list ON words(list_id)`,
	`CREATE TABLE IF NOT EXISTS word_translations (
		id {{id}},
		word_id INTEGER NOT NULL REFERENCES words(word_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		translation TEXT NOT NULL,
		word_type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS word_phrases (
		id {{id}},
		word_id INTEGER NOT NULL REFERENCES words(word_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		phrase TEXT NOT NULL,
		translation TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS study_logs (
		log_id {{id}},
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		word_id INTEGER NOT NULL REFERENCES words(word_id) ON DELETE CASCADE,
		study_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		accuracy_rate DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_study_logs_user ON study_logs(user_id, study_time)`,
	`CREATE TABLE IF NOT EXISTS review_schedules (
		schedule_id {{id}},
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		word_id INTEGER NOT NULL REFERENCES words(word_id) ON DELETE CASCADE,
		review_date TIMESTAMP NOT NULL,
		repeat_count INTEGER NOT NULL DEFAULT 0,
		memory_strength DOUBLE PRECISION NOT NULL DEFAULT 2.5,
		interval_days INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wrong_words (
		id {{id}},
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		word_id INTEGER NOT NULL REFERENCES words(word_id) ON DELETE CASCADE,
		wrong_count INTEGER NOT NULL DEFAULT 1,
		last_wrong_time TIMESTAMP NOT NULL,
		error_type TEXT NOT NULL DEFAULT '',
		user_answer TEXT NOT NULL DEFAULT '',
		correct_answer TEXT NOT NULL DEFAULT '',
		UNIQUE(user_id, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorite_words (
		fav_id {{id}},
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		word_id INTEGER NOT NULL REFERENCES words(word_id) ON DELETE CASCADE,
		fav_time TIMESTAMP NOT NULL,
		UNIQUE(user_id, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS checkin_logs (
		checkin_id {{id}},
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		checkin_date TEXT NOT NULL,
		word_count INTEGER NOT NULL DEFAULT 0,
		study_duration INTEGER NOT NULL DEFAULT 0,
		accuracy_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE(user_id, checkin_date)
	)`,
	`CREATE TABLE IF NOT EXISTS test_results (
		test_id {{id}},
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		score DOUBLE PRECISION NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		test_date TIMESTAMP NOT NULL,
		test_type TEXT NOT NULL DEFAULT ''
	)`,
}
