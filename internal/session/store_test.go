package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbook/pkg/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var alice = models.User{ID: 7, Username: "alice", Role: models.RoleStudent, Email: "alice@example.com"}

func TestStoreSaveLoad(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, DefaultKey, alice)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	loaded, err := s.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, alice.ID, loaded.User.ID)
	assert.Equal(t, alice.Username, loaded.User.Username)
	assert.Equal(t, alice.Role, loaded.User.Role)
	assert.Equal(t, alice.Email, loaded.User.Email)
	assert.WithinDuration(t, saved.CreatedAt, loaded.CreatedAt, time.Millisecond)
}

func TestStoreLoadMissing(t *testing.T) {
	s := setupStore(t)
	_, err := s.Load(context.Background(), DefaultKey)
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestStoreSaveReplaces(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, DefaultKey, alice)
	require.NoError(t, err)
	bob := models.User{ID: 8, Username: "bob", Role: models.RoleTeacher}
	second, err := s.Save(ctx, DefaultKey, bob)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	loaded, err := s.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.User.Username)
}

func TestStoreDeleteAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "chat:2", alice)
	require.NoError(t, err)
	_, err = s.Save(ctx, "chat:1", models.User{ID: 9, Username: "carol", Role: models.RoleStudent})
	require.NoError(t, err)
	_, err = s.Save(ctx, DefaultKey, alice)
	require.NoError(t, err)

	chats, err := s.List(ctx, "chat:")
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "chat:1", chats[0].Key)
	assert.Equal(t, "carol", chats[0].Session.User.Username)

	require.NoError(t, s.Delete(ctx, "chat:1"))
	require.NoError(t, s.Delete(ctx, "chat:1"), "deleting twice is fine")

	chats, err = s.List(ctx, "chat:")
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), DefaultKey, alice)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	loaded, err := reopened.Load(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.User.Username)
}

func TestChatKey(t *testing.T) {
	key := ChatKey(-100123)
	assert.Equal(t, "chat:-100123", key)

	id, ok := ChatID(key)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), id)

	_, ok = ChatID(DefaultKey)
	assert.False(t, ok)
	_, ok = ChatID("chat:abc")
	assert.False(t, ok)
}
