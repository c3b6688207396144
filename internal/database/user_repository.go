package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/wordbook/pkg/models"
)

// ErrInvalidCredentials is returned by Authenticate when the username,
// password or role do not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

const userColumns = "user_id, username, role, email, create_time"

type userRow struct {
	models.User
	PasswordHash string `db:"password_hash"`
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create registers an account. Username and e-mail must be unused.
func (r *UserRepository) Create(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	var taken int
	query := r.db.Rebind("SELECT COUNT(*) FROM users WHERE username = ? OR (email <> '' AND email = ?)")
	if err := r.db.GetContext(ctx, &taken, query, req.Username, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken > 0 {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:   req.Username,
		Role:       req.Role,
		Email:      req.Email,
		CreateTime: models.NewTimestamp(time.Now().Truncate(time.Second)),
	}
	id, err := insertID(ctx, r.db,
		"INSERT INTO users (username, password_hash, role, email, create_time) VALUES (?, ?, ?, ?, ?)",
		"user_id", user.Username, string(hash), user.Role, user.Email, user.CreateTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return &user, nil
}

// Authenticate checks a password against the stored hash. An empty role
// matches any role.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	var row userRow
	query := r.db.Rebind("SELECT " + userColumns + ", password_hash FROM users WHERE username = ?")
	if err := r.db.GetContext(ctx, &row, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if role != "" && row.Role != role {
		return nil, ErrInvalidCredentials
	}
	return &row.User, nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE user_id = ?")
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, notFound(err, "failed to get user %d", id)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// Update changes the non-empty fields of u.
func (r *UserRepository) Update(ctx context.Context, id int64, u models.UserUpdate) (*models.User, error) {
	if u.Role != "" && !u.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", u.Role)
	}

	sets := []string{}
	args := []any{}
	if u.Username != "" {
		sets, args = append(sets, "username = ?"), append(args, u.Username)
	}
	if u.Email != "" {
		sets, args = append(sets, "email = ?"), append(args, u.Email)
	}
	if u.Role != "" {
		sets, args = append(sets, "role = ?"), append(args, u.Role)
	}
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		sets, args = append(sets, "password_hash = ?"), append(args, string(hash))
	}
	if len(sets) > 0 {
		args = append(args, id)
		query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
		if err := execAffected(ctx, r.db, query, args...); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user and, through cascades, their study data.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffected(ctx, r.db, "DELETE FROM users WHERE user_id = ?", id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Search matches usernames and e-mails case-insensitively.
func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]models.User, error) {
	users := []models.User{}
	query := r.db.Rebind("SELECT " + userColumns + ` FROM users
		WHERE LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'
		ORDER BY username LIMIT ?`)
	p := likePattern(q)
	if err := r.db.SelectContext(ctx, &users, query, p, p, limit); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
