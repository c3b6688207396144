// Package bot is the Telegram front end. Every chat has its own session
// stored under session.ChatKey.
package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/session"
	"github.com/example/wordbook/internal/stats"
	"github.com/example/wordbook/pkg/models"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Backend is the data access the bot needs. *api.Client satisfies it.
type Backend interface {
	GetDashboardData(ctx context.Context, userID int64) (*models.DashboardData, error)
	GetWords(ctx context.Context, listID int64, limit int) []models.Word
	GetWord(ctx context.Context, id int64) (*models.Word, error)
	LogStudy(ctx context.Context, req models.StudyLogRequest) (*models.StudyLog, error)
	AddWrongWord(ctx context.Context, req models.WrongWordRequest) (*models.WrongWord, error)
	GetWrongWords(ctx context.Context, userID int64) []models.WrongWord
	FavoriteWord(ctx context.Context, userID, wordID int64) error
	GetReviewSchedule(ctx context.Context, userID int64) []models.ReviewSchedule
	CreateReviewSchedule(ctx context.Context, req models.ReviewScheduleRequest) (*models.ReviewSchedule, error)
	GradeReview(ctx context.Context, id int64, quality int) (*models.ReviewSchedule, error)
	GetStudyStatistics(ctx context.Context, userID int64, now time.Time) stats.Statistics
	CheckInToday(ctx context.Context, req models.CheckInRequest) (*models.CheckInResponse, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuButtons returns the buttons for the main menu
func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Study", CallbackData: "menu:study"},
			{Text: "🔁 Review", CallbackData: "menu:review"},
		},
		{
			{Text: "📊 Statistics", CallbackData: "menu:stats"},
			{Text: "📋 Dashboard", CallbackData: "menu:dashboard"},
		},
	}
}

// pendingSpell is a spelling question waiting for the user's answer.
type pendingSpell struct {
	Word models.Word
}

// Bot represents the Telegram bot application
type Bot struct {
	api      Sender
	backend  Backend
	sessions *session.Manager
	logger   *zap.Logger
	config   Config
	now      func() time.Time

	mu     sync.Mutex
	rnd    *rand.Rand
	spells map[int64]pendingSpell
	wg     sync.WaitGroup
}

// New creates a new bot instance
func New(sender Sender, backend Backend, sessions *session.Manager, config Config, logger *zap.Logger) *Bot {
	return &Bot{
		api:      sender,
		backend:  backend,
		sessions: sessions,
		logger:   logger,
		config:   config,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		spells:   make(map[int64]pendingSpell),
	}
}

// Start connects to Telegram with token and serves updates until ctx is done.
func Start(ctx context.Context, token string, backend Backend, sessions *session.Manager, config Config, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	logger.Info("authorized on account", zap.String("username", botAPI.Self.UserName))

	b := New(botAPI, backend, sessions, config, logger)
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := botAPI.GetUpdatesChan(updateConfig)
	go func() {
		<-ctx.Done()
		botAPI.StopReceivingUpdates()
	}()
	go b.Run(ctx, updates)
	return b, nil
}

// Run handles updates until the channel closes or ctx is done, then waits
// for the handlers in flight.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// SendReminder tells a chat how many reviews are due.
func (b *Bot) SendReminder(chatID int64, count int) error {
	msg := tgbotapi.NewMessage(chatID, reminderText(count))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "🔁 Review now", CallbackData: "menu:review"}}})
	_, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", chatID, err)
	}
	return nil
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		err = b.handleText(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.logger.Error("failed to handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
}

func (b *Bot) send(chatID int64, text string, buttons [][]MenuButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = createKeyboard(buttons)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) randomIndex(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rnd.Intn(n)
}
