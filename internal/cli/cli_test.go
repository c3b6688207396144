package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/api"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/server"
	"github.com/example/wordbook/pkg/models"
)

type testEnv struct {
	apiURL    string
	sessionDB string
	client    *api.Client
	dir       string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	db, err := database.Connect("sqlite3", filepath.Join(dir, "backend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(server.New(db, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		apiURL:    srv.URL + "/api",
		sessionDB: filepath.Join(dir, "session.db"),
		client:    api.New(srv.URL + "/api"),
		dir:       dir,
	}
}

// run executes one wordbook command line with stdin and returns its output.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := e.runApp(t, stdin, args...)
	return out, err
}

// runApp is run that also returns the App so tests can inspect it afterwards.
func (e *testEnv) runApp(t *testing.T, stdin string, args ...string) (string, *App, error) {
	t.Helper()
	cmd, app := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api", e.apiURL, "--session-db", e.sessionDB}, args...))
	err := app.execute(cmd)
	return out.String(), app, err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func (e *testEnv) register(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	u, err := e.client.Register(context.Background(), models.RegisterRequest{
		Username: username, Password: "secret", Email: username + "@example.com", Role: role,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) login(t *testing.T, username string, role models.Role) {
	t.Helper()
	e.mustRun(t, "login", "-u", username, "-p", "secret", "-r", string(role))
}

func TestLoginStoresSessionAndShowsDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)

	out := env.mustRun(t, "login", "-u", "alice", "-p", "secret")
	assert.Contains(t, out, "Logged in as alice (student)")
	assert.Contains(t, out, "Studied today:")

	out = env.mustRun(t, "whoami")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "alice@example.com")
}

func TestLoginWrongPasswordLeavesSessionUnset(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)

	_, err := env.run(t, "", "login", "-u", "alice", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid username or password")

	_, err = env.run(t, "", "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestFailedCommandReleasesSessionStore(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)

	_, app, err := env.runApp(t, "", "login", "-u", "alice", "-p", "wrong")
	require.Error(t, err)
	_, statErr := os.Stat(env.sessionDB)
	require.NoError(t, statErr, "login should have opened the session store")
	assert.Nil(t, app.store)
	assert.Nil(t, app.mgr)

	_, app, err = env.runApp(t, "", "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
	assert.Nil(t, app.store)
}

func TestLoginReadsCredentialsFromStdin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)

	out, err := env.run(t, "alice\nsecret\n", "login")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Logged in as alice")
}

func TestRegisterAndLogout(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "register", "-u", "bob", "-p", "pw", "-e", "bob@example.com")
	assert.Contains(t, out, "Welcome, bob!")

	_, err := env.run(t, "", "register", "-u", "bob", "-p", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	env.mustRun(t, "logout")
	_, err = env.run(t, "", "dashboard")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestVocabularyPages(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)
	env.login(t, "alice", models.RoleStudent)

	out := env.mustRun(t, "vocab", "create-list", "CET-4", "--difficulty", "easy", "--public")
	assert.Contains(t, out, `Created list 1 "CET-4"`)

	env.mustRun(t, "vocab", "add-word", "1", "apple", "苹果", "-t", "n", "--phrase", "an apple a day")
	env.mustRun(t, "vocab", "add-word", "1", "run", "跑", "-t", "v")

	out = env.mustRun(t, "vocab", "words", "--list", "1")
	assert.Contains(t, out, "apple")
	assert.Contains(t, out, "n. 苹果")
	assert.Contains(t, out, "v. 跑")

	out = env.mustRun(t, "vocab", "lists")
	assert.Contains(t, out, "CET-4")

	env.mustRun(t, "vocab", "update-list", "1", "--name", "CET-6")
	list, err := env.client.GetWordList(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "CET-6", list.Name)
	assert.True(t, list.IsPublic)
	assert.Equal(t, "easy", list.Difficulty)

	out = env.mustRun(t, "search", "app", "-t", "words")
	assert.Contains(t, out, "apple")

	env.mustRun(t, "vocab", "delete-word", "2")
	assert.Len(t, env.client.GetWords(context.Background(), 1, 0), 1)
}

func TestImportAndExport(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)
	env.login(t, "alice", models.RoleStudent)
	env.mustRun(t, "vocab", "create-list", "Imported")

	csvPath := filepath.Join(env.dir, "words.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("word,translation,type\napple,苹果,n\nrun,跑,v\nbook,书,n\n"), 0o600))

	out := env.mustRun(t, "vocab", "import", "1", csvPath, "--batch-size", "2")
	assert.Contains(t, out, "batch 2/2")
	assert.Contains(t, out, "Imported 3 of 3 words, 0 failed")
	assert.Len(t, env.client.GetWords(context.Background(), 1, 0), 3)

	xlsxPath := filepath.Join(env.dir, "out.xlsx")
	out = env.mustRun(t, "vocab", "export", xlsxPath, "--list", "1")
	assert.Contains(t, out, "Exported 3 words")
	_, err := os.Stat(xlsxPath)
	assert.NoError(t, err)
}

func TestStudyRecordsOutcomes(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", models.RoleStudent)
	env.login(t, "alice", models.RoleStudent)
	env.mustRun(t, "vocab", "create-list", "CET-4")
	env.mustRun(t, "vocab", "add-word", "1", "apple", "苹果")
	env.mustRun(t, "vocab", "add-word", "1", "run", "跑")

	out, err := env.run(t, "k\nu\n", "study")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Known 1, unknown 1")

	ctx := context.Background()
	assert.Len(t, env.client.GetStudyLogs(ctx, user.ID, 10), 2)
	wrong := env.client.GetWrongWords(ctx, user.ID)
	require.Len(t, wrong, 1)
	assert.Equal(t, models.ErrorTypeMeaning, wrong[0].ErrorType)
	assert.Len(t, env.client.GetReviewSchedule(ctx, user.ID), 1)

	out = env.mustRun(t, "errors", "--sort", "recent")
	assert.Contains(t, out, wrong[0].Word.Word)
	assert.Contains(t, out, "1 words, 1 mistakes")

	out = env.mustRun(t, "review", "list")
	assert.Contains(t, out, wrong[0].Word.Word)

	out = env.mustRun(t, "stats")
	assert.Contains(t, out, "Study days:       1")
}

func TestSpellingMissGoesToErrorBook(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", models.RoleStudent)
	env.login(t, "alice", models.RoleStudent)
	env.mustRun(t, "vocab", "create-list", "CET-4")
	env.mustRun(t, "vocab", "add-word", "1", "apple", "苹果")

	out, err := env.run(t, "aple\n", "spell")
	require.NoError(t, err, out)
	assert.Contains(t, out, `Wrong, it is "apple"`)

	wrong := env.client.GetWrongWords(context.Background(), user.ID)
	require.Len(t, wrong, 1)
	assert.Equal(t, models.ErrorTypeSpelling, wrong[0].ErrorType)
	assert.Equal(t, "aple", wrong[0].UserAnswer)
}

func TestReviewAddAndGrade(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "alice", models.RoleStudent)
	env.login(t, "alice", models.RoleStudent)
	env.mustRun(t, "vocab", "create-list", "CET-4")
	env.mustRun(t, "vocab", "add-word", "1", "apple", "苹果")

	out := env.mustRun(t, "review", "add", "1")
	assert.Contains(t, out, "Scheduled review 1 for word 1")

	_, err := env.run(t, "", "review", "grade", "1", "9")
	assert.ErrorContains(t, err, "quality must be 0-5")

	out = env.mustRun(t, "review", "grade", "1", "5")
	assert.Contains(t, out, "in 1 days")

	schedules := env.client.GetReviewSchedule(context.Background(), user.ID)
	require.Len(t, schedules, 1)
	assert.Equal(t, 1, schedules[0].RepeatCount)
}

func TestCheckInOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)
	env.login(t, "alice", models.RoleStudent)

	assert.Contains(t, env.mustRun(t, "checkin"), "Checked in!")
	assert.Contains(t, env.mustRun(t, "checkin", "today"), "already checked in")

	out := env.mustRun(t, "checkin", "stats")
	assert.Contains(t, out, "Total:          1")
}

func TestUsersRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleStudent)
	env.register(t, "root", models.RoleAdmin)

	env.login(t, "alice", models.RoleStudent)
	_, err := env.run(t, "", "users", "list")
	assert.ErrorContains(t, err, "admin role")

	env.login(t, "root", models.RoleAdmin)
	out := env.mustRun(t, "users", "add", "-u", "carol", "-p", "pw", "-r", "teacher")
	assert.Contains(t, out, "carol (teacher)")

	out = env.mustRun(t, "users", "list")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "carol")

	env.mustRun(t, "users", "update", "3", "-r", "student")
	u, err := env.client.GetUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, u.Role)

	env.mustRun(t, "users", "delete", "3")
	_, err = env.client.GetUser(context.Background(), 3)
	assert.Error(t, err)
}
