package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/wordbook/pkg/models"
)

// Authenticator checks credentials against the backend.
type Authenticator interface {
	Login(ctx context.Context, username, password string, role models.Role) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
}

// Manager ties authentication to the session store. A failed login never
// touches the stored session.
type Manager struct {
	auth  Authenticator
	store *Store
}

// NewManager creates a manager.
func NewManager(auth Authenticator, store *Store) *Manager {
	return &Manager{auth: auth, store: store}
}

// Login authenticates and, on success, stores the session under key.
func (m *Manager) Login(ctx context.Context, key, username, password string, role models.Role) (*Session, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	user, err := m.auth.Login(ctx, username, password, role)
	if err != nil {
		return nil, err
	}
	return m.store.Save(ctx, key, *user)
}

// Register creates an account and logs it in under key.
func (m *Manager) Register(ctx context.Context, key string, req models.RegisterRequest) (*Session, error) {
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}
	user, err := m.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.store.Save(ctx, key, *user)
}

// Logout clears the session under key.
func (m *Manager) Logout(ctx context.Context, key string) error {
	return m.store.Delete(ctx, key)
}

// Current returns the session under key, or ErrNoSession.
func (m *Manager) Current(ctx context.Context, key string) (*Session, error) {
	return m.store.Load(ctx, key)
}

// Attach loads the session under key into ctx.
func (m *Manager) Attach(ctx context.Context, key string) (context.Context, error) {
	s, err := m.store.Load(ctx, key)
	if err != nil {
		return ctx, err
	}
	return WithSession(ctx, s), nil
}
