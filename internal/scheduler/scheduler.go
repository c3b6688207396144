// Package scheduler sends periodic review reminders to bot users.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/session"
	"github.com/example/wordbook/internal/srs"
	"github.com/example/wordbook/pkg/models"
)

const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 21

	runTimeout = 2 * time.Minute
)

// Notifier sends a reminder about count due reviews to a chat.
type Notifier interface {
	SendReminder(chatID int64, count int) error
}

// ReviewSource lists a user's review schedules. *api.Client satisfies it.
type ReviewSource interface {
	GetReviewSchedule(ctx context.Context, userID int64) []models.ReviewSchedule
}

// SessionLister lists stored sessions. *session.Store satisfies it.
type SessionLister interface {
	List(ctx context.Context, prefix string) ([]session.Keyed, error)
}

// Window is the range of local hours, inclusive, in which reminders go out.
type Window struct {
	StartHour int
	EndHour   int
}

// Contains reports whether hour lies in the window. A window whose start is
// after its end wraps past midnight.
func (w Window) Contains(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour <= w.EndHour
	}
	return hour >= w.StartHour || hour <= w.EndHour
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	reviews   ReviewSource
	sessions  SessionLister
	window    Window
	logger    *zap.Logger
}

// New creates a new scheduler instance running in loc.
func New(notifier Notifier, reviews ReviewSource, sessions SessionLister, window Window, loc *time.Location, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		notifier:  notifier,
		reviews:   reviews,
		sessions:  sessions,
		window:    window,
		logger:    logger,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Hour().StartAt(nextHour(time.Now())).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		s.RunOnce(ctx, time.Now())
	})
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce sends reminders for the hour of now and returns how many were
// sent. Outside the notification window nothing is sent.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) int {
	if !s.window.Contains(now.Hour()) {
		s.logger.Debug("outside notification hours, skipping reminders",
			zap.Int("hour", now.Hour()),
			zap.Int("start", s.window.StartHour),
			zap.Int("end", s.window.EndHour))
		return 0
	}

	chats, err := s.sessions.List(ctx, session.ChatPrefix)
	if err != nil {
		s.logger.Error("failed to list chat sessions", zap.Error(err))
		return 0
	}

	sent := 0
	for _, chat := range chats {
		chatID, ok := session.ChatID(chat.Key)
		if !ok {
			continue
		}
		count := len(srs.Due(s.reviews.GetReviewSchedule(ctx, chat.Session.User.ID), now, 0))
		if count == 0 {
			continue
		}
		if err := s.notifier.SendReminder(chatID, count); err != nil {
			s.logger.Warn("failed to send reminder", zap.Int64("chat_id", chatID), zap.Error(err))
			continue
		}
		sent++
	}
	s.logger.Info("reminders sent", zap.Int("count", sent))
	return sent
}

func nextHour(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}
