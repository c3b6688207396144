package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/errorbook"
	"github.com/example/wordbook/internal/quiz"
	"github.com/example/wordbook/internal/session"
	"github.com/example/wordbook/internal/srs"
	"github.com/example/wordbook/pkg/models"
)

const msgLoginFirst = "🔒 Please /login first."

// handleCommand dispatches a slash command
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, chatID)
	case "help":
		return b.send(chatID, helpText, nil)
	case "login":
		return b.handleLogin(ctx, msg)
	case "register":
		return b.handleRegister(ctx, msg)
	}

	sess, err := b.sessions.Current(ctx, session.ChatKey(chatID))
	if errors.Is(err, session.ErrNoSession) {
		return b.send(chatID, msgLoginFirst, nil)
	}
	if err != nil {
		return err
	}
	userID := sess.User.ID

	switch msg.Command() {
	case "logout":
		return b.handleLogout(ctx, chatID)
	case "dashboard":
		return b.handleDashboard(ctx, chatID, userID)
	case "study":
		return b.handleStudy(ctx, chatID)
	case "spell":
		return b.handleSpell(ctx, chatID)
	case "stats":
		return b.handleStats(ctx, chatID, userID)
	case "errors":
		return b.handleErrors(ctx, chatID, userID)
	case "review":
		return b.handleReview(ctx, chatID, userID)
	case "checkin":
		return b.handleCheckIn(ctx, chatID, userID)
	default:
		return b.send(chatID, "Unknown command. Try /help.", nil)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) error {
	sess, err := b.sessions.Current(ctx, session.ChatKey(chatID))
	if err != nil {
		return b.send(chatID, welcomeText(""), nil)
	}
	return b.send(chatID, welcomeText(sess.User.Username), mainMenuButtons())
}

// handleLogin expects "/login <username> <password> [role]". The message is
// deleted so the password does not stay in the chat history.
func (b *Bot) handleLogin(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		b.logger.Warn("failed to delete login message", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.send(chatID, "Usage: /login <username> <password> [role]", nil)
	}
	role := models.RoleStudent
	if len(args) > 2 {
		role = models.Role(args[2])
	}

	sess, err := b.sessions.Login(ctx, session.ChatKey(chatID), args[0], args[1], role)
	if err != nil {
		return b.send(chatID, "❌ Login failed: "+err.Error(), nil)
	}
	return b.send(chatID, welcomeText(sess.User.Username), mainMenuButtons())
}

func (b *Bot) handleRegister(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		b.logger.Warn("failed to delete register message", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.send(chatID, "Usage: /register <username> <password> [email]", nil)
	}
	req := models.RegisterRequest{Username: args[0], Password: args[1], Role: models.RoleStudent}
	if len(args) > 2 {
		req.Email = args[2]
	}

	sess, err := b.sessions.Register(ctx, session.ChatKey(chatID), req)
	if err != nil {
		return b.send(chatID, "❌ Registration failed: "+err.Error(), nil)
	}
	return b.send(chatID, welcomeText(sess.User.Username), mainMenuButtons())
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) error {
	b.mu.Lock()
	delete(b.spells, chatID)
	b.mu.Unlock()
	if err := b.sessions.Logout(ctx, session.ChatKey(chatID)); err != nil {
		return err
	}
	return b.send(chatID, "👋 Logged out.", nil)
}

func (b *Bot) handleDashboard(ctx context.Context, chatID, userID int64) error {
	data, err := b.backend.GetDashboardData(ctx, userID)
	if err != nil {
		b.logger.Error("failed to load dashboard", zap.Int64("user_id", userID), zap.Error(err))
		return b.send(chatID, "❌ Could not load the dashboard.", nil)
	}
	return b.send(chatID, dashboardText(data), mainMenuButtons())
}

// randomWord picks a word with at least one translation.
func (b *Bot) randomWord(ctx context.Context) (models.Word, bool) {
	words := b.backend.GetWords(ctx, 0, b.config.StudyPoolSize)
	pool := words[:0]
	for _, w := range words {
		if w.PrimaryTranslation() != "" {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		return models.Word{}, false
	}
	return pool[b.randomIndex(len(pool))], true
}

func (b *Bot) handleStudy(ctx context.Context, chatID int64) error {
	w, ok := b.randomWord(ctx)
	if !ok {
		return b.send(chatID, "No words to study yet.", nil)
	}
	id := strconv.FormatInt(w.ID, 10)
	return b.send(chatID, cardText(w), [][]MenuButton{
		{
			{Text: "✅ Know it", CallbackData: "study:known:" + id},
			{Text: "❓ Don't know", CallbackData: "study:unknown:" + id},
		},
		{
			{Text: "⭐ Favorite", CallbackData: "study:fav:" + id},
		},
	})
}

func (b *Bot) handleSpell(ctx context.Context, chatID int64) error {
	w, ok := b.randomWord(ctx)
	if !ok {
		return b.send(chatID, "No words to practise yet.", nil)
	}
	b.mu.Lock()
	b.spells[chatID] = pendingSpell{Word: w}
	b.mu.Unlock()

	text := fmt.Sprintf("✏️ Spell the word meaning: %s", w.Meaning())
	if cloze := quiz.Cloze(w); cloze != "" {
		text += "\n\n" + cloze
	}
	return b.send(chatID, text, nil)
}

// handleText answers a pending spelling question.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	b.mu.Lock()
	pending, ok := b.spells[chatID]
	delete(b.spells, chatID)
	b.mu.Unlock()
	if !ok {
		return b.send(chatID, "Try /help to see what I can do.", nil)
	}

	sess, err := b.sessions.Current(ctx, session.ChatKey(chatID))
	if errors.Is(err, session.ErrNoSession) {
		return b.send(chatID, msgLoginFirst, nil)
	}
	if err != nil {
		return err
	}
	userID := sess.User.ID
	w := pending.Word

	if quiz.CheckSpelling(msg.Text, w) {
		b.logStudy(ctx, userID, w.ID, models.StatusKnown, 100)
		return b.send(chatID, "✅ Correct!\n\n"+answerText(w), [][]MenuButton{{{Text: "✏️ Next", CallbackData: "menu:spell"}}})
	}

	b.logStudy(ctx, userID, w.ID, models.StatusUnknown, 0)
	if _, err := b.backend.AddWrongWord(ctx, models.WrongWordRequest{
		UserID:        userID,
		WordID:        w.ID,
		UserAnswer:    strings.TrimSpace(msg.Text),
		CorrectAnswer: w.Word,
		ErrorType:     models.ErrorTypeSpelling,
	}); err != nil {
		b.logger.Error("failed to add wrong word", zap.Int64("word_id", w.ID), zap.Error(err))
	}
	return b.send(chatID, fmt.Sprintf("❌ The answer is %q.\n\n%s", w.Word, answerText(w)),
		[][]MenuButton{{{Text: "✏️ Next", CallbackData: "menu:spell"}}})
}

func (b *Bot) logStudy(ctx context.Context, userID, wordID int64, status models.StudyStatus, accuracy float64) {
	_, err := b.backend.LogStudy(ctx, models.StudyLogRequest{
		UserID:       userID,
		WordID:       wordID,
		Status:       status,
		AccuracyRate: &accuracy,
	})
	if err != nil {
		b.logger.Error("failed to log study", zap.Int64("word_id", wordID), zap.Error(err))
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID, userID int64) error {
	s := b.backend.GetStudyStatistics(ctx, userID, b.now())
	return b.send(chatID, statsText(s), nil)
}

func (b *Bot) handleErrors(ctx context.Context, chatID, userID int64) error {
	book := errorbook.New(b.backend.GetWrongWords(ctx, userID))
	return b.send(chatID, errorBookText(book, b.config.ErrorListLimit), nil)
}

// handleReview shows the most urgent due review with quality buttons.
func (b *Bot) handleReview(ctx context.Context, chatID, userID int64) error {
	due := srs.Due(b.backend.GetReviewSchedule(ctx, userID), b.now(), 0)
	if len(due) == 0 {
		return b.send(chatID, "🎉 Nothing to review right now.", nil)
	}
	next := due[0]
	word := next.Word
	if word == nil {
		w, err := b.backend.GetWord(ctx, next.WordID)
		if err != nil {
			return fmt.Errorf("failed to load word %d: %w", next.WordID, err)
		}
		word = w
	}

	id := strconv.FormatInt(next.ID, 10)
	row := make([]MenuButton, 0, int(srs.QualityPerfect)+1)
	for q := srs.QualityBlackout; q <= srs.QualityPerfect; q++ {
		row = append(row, MenuButton{Text: strconv.Itoa(int(q)), CallbackData: fmt.Sprintf("review:%s:%d", id, q)})
	}
	text := fmt.Sprintf("🔁 %d due\n\n%s\n\nHow well did you remember it? (0 = forgot, 5 = perfect)",
		len(due), answerText(*word))
	return b.send(chatID, text, [][]MenuButton{row})
}

func (b *Bot) handleCheckIn(ctx context.Context, chatID, userID int64) error {
	req := models.CheckInRequest{UserID: userID}
	if data, err := b.backend.GetDashboardData(ctx, userID); err == nil {
		req.WordCount = data.TodayStudied
		req.AccuracyRate = data.Accuracy
	}
	resp, err := b.backend.CheckInToday(ctx, req)
	if err != nil {
		b.logger.Error("failed to check in", zap.Int64("user_id", userID), zap.Error(err))
		return b.send(chatID, "❌ Check-in failed.", nil)
	}
	return b.send(chatID, checkInText(resp), nil)
}

// handleCallback handles inline keyboard presses. Data is "<kind>:<args>".
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	if cq.Message == nil {
		return nil
	}
	chatID := cq.Message.Chat.ID
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.String("callback_id", cq.ID), zap.Error(err))
	}

	sess, err := b.sessions.Current(ctx, session.ChatKey(chatID))
	if errors.Is(err, session.ErrNoSession) {
		return b.send(chatID, msgLoginFirst, nil)
	}
	if err != nil {
		return err
	}
	userID := sess.User.ID

	parts := strings.Split(cq.Data, ":")
	switch parts[0] {
	case "menu":
		if len(parts) < 2 {
			break
		}
		switch parts[1] {
		case "study":
			return b.handleStudy(ctx, chatID)
		case "spell":
			return b.handleSpell(ctx, chatID)
		case "review":
			return b.handleReview(ctx, chatID, userID)
		case "stats":
			return b.handleStats(ctx, chatID, userID)
		case "dashboard":
			return b.handleDashboard(ctx, chatID, userID)
		}
	case "study":
		if len(parts) != 3 {
			break
		}
		wordID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			break
		}
		return b.handleStudyAnswer(ctx, chatID, userID, wordID, parts[1])
	case "review":
		if len(parts) != 3 {
			break
		}
		id, err1 := strconv.ParseInt(parts[1], 10, 64)
		q, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			break
		}
		return b.handleReviewGrade(ctx, chatID, userID, id, q)
	}
	b.logger.Warn("unknown callback data", zap.String("data", cq.Data))
	return nil
}

func (b *Bot) handleStudyAnswer(ctx context.Context, chatID, userID, wordID int64, action string) error {
	next := [][]MenuButton{{{Text: "➡️ Next word", CallbackData: "menu:study"}}}

	switch action {
	case "fav":
		if err := b.backend.FavoriteWord(ctx, userID, wordID); err != nil {
			return b.send(chatID, "⭐ "+err.Error(), next)
		}
		return b.send(chatID, "⭐ Added to favorites.", next)
	case "known":
		b.logStudy(ctx, userID, wordID, models.StatusKnown, 100)
	case "unknown":
		b.logStudy(ctx, userID, wordID, models.StatusUnknown, 0)
		if _, err := b.backend.AddWrongWord(ctx, models.WrongWordRequest{
			UserID:    userID,
			WordID:    wordID,
			ErrorType: models.ErrorTypeMeaning,
		}); err != nil {
			b.logger.Error("failed to add wrong word", zap.Int64("word_id", wordID), zap.Error(err))
		}
		due := b.now().AddDate(0, 0, b.config.UnknownReviewDelayDays)
		if _, err := b.backend.CreateReviewSchedule(ctx, models.ReviewScheduleRequest{
			UserID:         userID,
			WordID:         wordID,
			ReviewDate:     models.NewTimestamp(due),
			MemoryStrength: srs.DefaultEasiness,
		}); err != nil {
			b.logger.Error("failed to schedule review", zap.Int64("word_id", wordID), zap.Error(err))
		}
	default:
		return fmt.Errorf("unknown study action %q", action)
	}

	w, err := b.backend.GetWord(ctx, wordID)
	if err != nil {
		return fmt.Errorf("failed to load word %d: %w", wordID, err)
	}
	return b.send(chatID, answerText(*w), next)
}

func (b *Bot) handleReviewGrade(ctx context.Context, chatID, userID, scheduleID int64, quality int) error {
	rs, err := b.backend.GradeReview(ctx, scheduleID, quality)
	if err != nil {
		b.logger.Error("failed to grade review", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		return b.send(chatID, "❌ Could not save the grade.", nil)
	}
	text := fmt.Sprintf("Next review in %d day(s).", rs.IntervalDays)
	if err := b.send(chatID, text, nil); err != nil {
		return err
	}
	return b.handleReview(ctx, chatID, userID)
}
