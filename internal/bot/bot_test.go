package bot

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/errorbook"
	"github.com/example/wordbook/internal/session"
	"github.com/example/wordbook/internal/stats"
	"github.com/example/wordbook/pkg/models"
)

const chatID int64 = 42

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type sentMessage struct {
	Text    string
	Buttons []string
}

type fakeSender struct {
	mu        sync.Mutex
	messages  []sentMessage
	deleted   []int
	callbacks []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	sm := sentMessage{Text: msg.Text}
	if kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
		for _, row := range kb.InlineKeyboard {
			for _, btn := range row {
				sm.Buttons = append(sm.Buttons, *btn.CallbackData)
			}
		}
	}
	f.messages = append(f.messages, sm)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.DeleteMessageConfig:
		f.deleted = append(f.deleted, v.MessageID)
	case tgbotapi.CallbackConfig:
		f.callbacks = append(f.callbacks, v.CallbackQueryID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

type fakeBackend struct {
	mu         sync.Mutex
	words      []models.Word
	schedules  []models.ReviewSchedule
	wrong      []models.WrongWord
	logs       []models.StudyLogRequest
	wrongReqs  []models.WrongWordRequest
	reviewReqs []models.ReviewScheduleRequest
	graded     map[int64]int
	favorites  []int64
	checkIns   []models.CheckInRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		words: []models.Word{
			{ID: 1, Word: "apple", Translations: []models.Translation{{Translation: "苹果", Type: "n"}},
				Phrases: []models.Phrase{{Phrase: "an apple a day", Translation: "一天一苹果"}}},
			{ID: 2, Word: "orphan"},
		},
		graded: make(map[int64]int),
	}
}

func (f *fakeBackend) Login(_ context.Context, username, password string, _ models.Role) (*models.User, error) {
	if username != "alice" || password != "secret" {
		return nil, errors.New("invalid username or password")
	}
	return &models.User{ID: 7, Username: "alice", Role: models.RoleStudent}, nil
}

func (f *fakeBackend) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	return &models.User{ID: 8, Username: req.Username, Role: req.Role, Email: req.Email}, nil
}

func (f *fakeBackend) GetDashboardData(_ context.Context, _ int64) (*models.DashboardData, error) {
	return &models.DashboardData{TodayStudied: 3, TotalWords: 2, Accuracy: 80, WeeklyGoal: 200}, nil
}

func (f *fakeBackend) GetWords(_ context.Context, _ int64, _ int) []models.Word {
	return append([]models.Word(nil), f.words...)
}

func (f *fakeBackend) GetWord(_ context.Context, id int64) (*models.Word, error) {
	for _, w := range f.words {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBackend) LogStudy(_ context.Context, req models.StudyLogRequest) (*models.StudyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, req)
	return &models.StudyLog{UserID: req.UserID, WordID: req.WordID, Status: req.Status}, nil
}

func (f *fakeBackend) AddWrongWord(_ context.Context, req models.WrongWordRequest) (*models.WrongWord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wrongReqs = append(f.wrongReqs, req)
	return &models.WrongWord{UserID: req.UserID, WordID: req.WordID, WrongCount: 1}, nil
}

func (f *fakeBackend) GetWrongWords(_ context.Context, _ int64) []models.WrongWord {
	return f.wrong
}

func (f *fakeBackend) FavoriteWord(_ context.Context, _, wordID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites = append(f.favorites, wordID)
	return nil
}

func (f *fakeBackend) GetReviewSchedule(_ context.Context, _ int64) []models.ReviewSchedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ReviewSchedule(nil), f.schedules...)
}

func (f *fakeBackend) CreateReviewSchedule(_ context.Context, req models.ReviewScheduleRequest) (*models.ReviewSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewReqs = append(f.reviewReqs, req)
	return &models.ReviewSchedule{UserID: req.UserID, WordID: req.WordID, ReviewDate: req.ReviewDate}, nil
}

func (f *fakeBackend) GradeReview(_ context.Context, id int64, quality int) (*models.ReviewSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graded[id] = quality
	remaining := f.schedules[:0]
	for _, s := range f.schedules {
		if s.ID != id {
			remaining = append(remaining, s)
		}
	}
	f.schedules = remaining
	return &models.ReviewSchedule{ID: id, IntervalDays: 1}, nil
}

func (f *fakeBackend) GetStudyStatistics(_ context.Context, _ int64, now time.Time) stats.Statistics {
	return stats.Aggregate(nil, models.MasterySummary{TotalWords: 2}, nil, now)
}

func (f *fakeBackend) CheckInToday(_ context.Context, req models.CheckInRequest) (*models.CheckInResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	already := len(f.checkIns) > 0
	f.checkIns = append(f.checkIns, req)
	return &models.CheckInResponse{Success: true, AlreadyCheckedIn: already}, nil
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *fakeBackend, *session.Store) {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	backend := newFakeBackend()
	sender := &fakeSender{}
	b := New(sender, backend, session.NewManager(backend, store), DefaultConfig(), zap.NewNop())
	b.now = func() time.Time { return testNow }
	b.rnd = rand.New(rand.NewSource(1))
	return b, sender, backend, store
}

func command(id int, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: id,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func login(t *testing.T, b *Bot) {
	t.Helper()
	b.handleUpdate(context.Background(), command(1, "/login alice secret"))
}

func TestCommandsRequireLogin(t *testing.T) {
	b, sender, _, _ := newTestBot(t)
	b.handleUpdate(context.Background(), command(1, "/dashboard"))
	assert.Equal(t, msgLoginFirst, sender.last(t).Text)

	b.handleUpdate(context.Background(), command(2, "/help"))
	assert.Contains(t, sender.last(t).Text, "/login")
}

func TestLoginStoresChatSessionAndDeletesMessage(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	b.handleUpdate(context.Background(), command(5, "/login alice secret"))

	assert.Equal(t, []int{5}, sender.deleted)
	assert.Contains(t, sender.last(t).Text, "alice")

	sess, err := store.Load(context.Background(), session.ChatKey(chatID))
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.User.ID)

	b.handleUpdate(context.Background(), command(6, "/dashboard"))
	assert.Contains(t, sender.last(t).Text, "Studied today: 3")
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	b.handleUpdate(context.Background(), command(5, "/login alice wrong"))

	assert.Contains(t, sender.last(t).Text, "Login failed")
	_, err := store.Load(context.Background(), session.ChatKey(chatID))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogout(t *testing.T) {
	b, sender, _, store := newTestBot(t)
	login(t, b)
	b.handleUpdate(context.Background(), command(2, "/logout"))

	assert.Contains(t, sender.last(t).Text, "Logged out")
	_, err := store.Load(context.Background(), session.ChatKey(chatID))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStudySkipsWordsWithoutTranslation(t *testing.T) {
	b, sender, _, _ := newTestBot(t)
	login(t, b)
	for i := 0; i < 5; i++ {
		b.handleUpdate(context.Background(), command(2, "/study"))
		msg := sender.last(t)
		assert.Contains(t, msg.Text, "apple")
		assert.Equal(t, []string{"study:known:1", "study:unknown:1", "study:fav:1"}, msg.Buttons)
	}
}

func TestStudyUnknownRecordsMistakeAndSchedulesReview(t *testing.T) {
	b, sender, backend, _ := newTestBot(t)
	login(t, b)
	b.handleUpdate(context.Background(), callback("study:unknown:1"))

	require.Len(t, backend.logs, 1)
	assert.Equal(t, models.StatusUnknown, backend.logs[0].Status)
	require.Len(t, backend.wrongReqs, 1)
	assert.Equal(t, models.ErrorTypeMeaning, backend.wrongReqs[0].ErrorType)
	require.Len(t, backend.reviewReqs, 1)
	assert.True(t, backend.reviewReqs[0].ReviewDate.Equal(testNow.AddDate(0, 0, 1)))

	assert.Contains(t, sender.last(t).Text, "n. 苹果")
	assert.Equal(t, []string{"cb-study:unknown:1"}, sender.callbacks)
}

func TestStudyKnownAndFavorite(t *testing.T) {
	b, _, backend, _ := newTestBot(t)
	login(t, b)
	b.handleUpdate(context.Background(), callback("study:known:1"))
	b.handleUpdate(context.Background(), callback("study:fav:1"))

	require.Len(t, backend.logs, 1)
	assert.Equal(t, models.StatusKnown, backend.logs[0].Status)
	assert.Empty(t, backend.wrongReqs)
	assert.Equal(t, []int64{1}, backend.favorites)
}

func TestSpellingMistakeGoesToErrorBook(t *testing.T) {
	b, sender, backend, _ := newTestBot(t)
	login(t, b)
	b.handleUpdate(context.Background(), command(2, "/spell"))
	assert.Contains(t, sender.last(t).Text, "an _______ a day")

	b.handleUpdate(context.Background(), text("aple"))
	require.Len(t, backend.wrongReqs, 1)
	assert.Equal(t, models.ErrorTypeSpelling, backend.wrongReqs[0].ErrorType)
	assert.Equal(t, "aple", backend.wrongReqs[0].UserAnswer)
	assert.Equal(t, "apple", backend.wrongReqs[0].CorrectAnswer)

	b.handleUpdate(context.Background(), command(3, "/spell"))
	b.handleUpdate(context.Background(), text("  Apple "))
	assert.Contains(t, sender.last(t).Text, "Correct")
	require.Len(t, backend.logs, 2)
	assert.Equal(t, models.StatusKnown, backend.logs[1].Status)
}

func TestReviewGrading(t *testing.T) {
	b, sender, backend, _ := newTestBot(t)
	backend.schedules = []models.ReviewSchedule{
		{ID: 10, WordID: 1, ReviewDate: models.NewTimestamp(testNow.Add(-time.Hour)), MemoryStrength: 2.5},
		{ID: 11, WordID: 1, ReviewDate: models.NewTimestamp(testNow.Add(time.Hour)), MemoryStrength: 2.5},
	}
	login(t, b)

	b.handleUpdate(context.Background(), command(2, "/review"))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "1 due")
	assert.Len(t, msg.Buttons, 6)
	assert.Equal(t, "review:10:0", msg.Buttons[0])

	b.handleUpdate(context.Background(), callback("review:10:4"))
	assert.Equal(t, map[int64]int{10: 4}, backend.graded)
	assert.Contains(t, sender.last(t).Text, "Nothing to review")
}

func TestCheckIn(t *testing.T) {
	b, sender, backend, _ := newTestBot(t)
	login(t, b)

	b.handleUpdate(context.Background(), command(2, "/checkin"))
	assert.Contains(t, sender.last(t).Text, "Checked in")
	require.Len(t, backend.checkIns, 1)
	assert.Equal(t, 3, backend.checkIns[0].WordCount)

	b.handleUpdate(context.Background(), command(3, "/checkin"))
	assert.Contains(t, sender.last(t).Text, "already checked in")
}

func TestStatsAndErrors(t *testing.T) {
	b, sender, backend, _ := newTestBot(t)
	backend.wrong = []models.WrongWord{
		{ID: 1, WordID: 1, WrongCount: 2, ErrorType: "meaning", Word: &models.Word{Word: "apple"}},
		{ID: 2, WordID: 2, WrongCount: 5, ErrorType: "spelling"},
	}
	login(t, b)

	b.handleUpdate(context.Background(), command(2, "/stats"))
	assert.Contains(t, sender.last(t).Text, "Words: 2")

	b.handleUpdate(context.Background(), command(3, "/errors"))
	out := sender.last(t).Text
	assert.Contains(t, out, "2 words, 7 mistakes")
	assert.Less(t, strings.Index(out, "#2 ×5"), strings.Index(out, "apple ×2"))
}

func TestErrorBookTextLimit(t *testing.T) {
	book := errorbook.New([]models.WrongWord{
		{ID: 1, WordID: 1, WrongCount: 3},
		{ID: 2, WordID: 2, WrongCount: 2},
		{ID: 3, WordID: 3, WrongCount: 1},
	})
	out := errorBookText(book, 2)
	assert.Contains(t, out, "and 1 more")
	assert.NotContains(t, out, "#3")

	assert.Contains(t, errorBookText(errorbook.New(nil), 2), "empty")
}

func TestSendReminder(t *testing.T) {
	b, sender, _, _ := newTestBot(t)
	require.NoError(t, b.SendReminder(chatID, 3))
	msg := sender.last(t)
	assert.Equal(t, "⏰ You have 3 words waiting for review.", msg.Text)
	assert.Equal(t, []string{"menu:review"}, msg.Buttons)
	assert.Equal(t, "⏰ You have 1 word waiting for review.", reminderText(1))
}

func TestRunStopsWhenUpdatesClose(t *testing.T) {
	b, sender, _, _ := newTestBot(t)
	updates := make(chan tgbotapi.Update, 1)
	updates <- command(1, "/help")
	close(updates)

	done := make(chan struct{})
	go func() {
		b.Run(context.Background(), updates)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Contains(t, sender.last(t).Text, "/login")
}
