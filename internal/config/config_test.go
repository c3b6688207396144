package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, filepath.Join("/tmp/data", "wordbook", "session.db"), cfg.SessionDB)
	assert.Equal(t, DefaultImportBatchSize, cfg.ImportBatchSize)
	assert.Equal(t, "sqlite3", cfg.Server.DBDriver)
}

func TestLoadFileThenEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url = "http://backend:9000/api"
import_batch_size = 20

[server]
db_driver = "postgres"
database_url = "postgres://localhost/wordbook"

[bot]
notification_start_hour = 9
`), 0o600))
	t.Setenv("IMPORT_BATCH_SIZE", "10")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000/api", cfg.APIURL)
	assert.Equal(t, 10, cfg.ImportBatchSize)
	assert.Equal(t, "postgres", cfg.Server.DBDriver)
	assert.Equal(t, 9, cfg.Bot.NotificationStartHour)
	assert.Equal(t, DefaultNotificationEndHour, cfg.Bot.NotificationEndHour)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WORDBOOK_API_URL=http://from-dotenv/api\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("WORDBOOK_API_URL") })

	cfg, err := Load(filepath.Join(dir, "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv/api", cfg.APIURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	missing := filepath.Join(t.TempDir(), "absent.toml")

	t.Run("non numeric", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "HTTP_TIMEOUT")
	})

	t.Run("hour out of range", func(t *testing.T) {
		t.Setenv("NOTIFICATION_END_HOUR", "24")
		_, err := Load(missing)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "oracle")
	})
}
