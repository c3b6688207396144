package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/quiz"
	"github.com/example/wordbook/internal/srs"
	"github.com/example/wordbook/pkg/models"
)

const (
	defaultStudyCount = 10
	wordPoolSize      = 500
)

// drawWords returns up to count shuffled words that have a translation.
func (a *App) drawWords(ctx context.Context, listID int64, count int) []models.Word {
	words := a.client.GetWords(ctx, listID, wordPoolSize)
	pool := make([]models.Word, 0, len(words))
	for _, w := range words {
		if w.PrimaryTranslation() != "" {
			pool = append(pool, w)
		}
	}
	rnd := rand.New(rand.NewSource(a.now().UnixNano()))
	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count > 0 && len(pool) > count {
		pool = pool[:count]
	}
	return pool
}

func (a *App) logStudy(ctx context.Context, userID, wordID int64, status models.StudyStatus, accuracy float64) {
	if _, err := a.client.LogStudy(ctx, models.StudyLogRequest{
		UserID:       userID,
		WordID:       wordID,
		Status:       status,
		AccuracyRate: &accuracy,
	}); err != nil {
		a.logger.Warn("failed to log study", zap.Int64("word_id", wordID), zap.Error(err))
	}
}

// markUnknown records a missed word in the error book and schedules it for
// review tomorrow.
func (a *App) markUnknown(ctx context.Context, userID int64, w models.Word) {
	a.logStudy(ctx, userID, w.ID, models.StatusUnknown, 0)
	if _, err := a.client.AddWrongWord(ctx, models.WrongWordRequest{
		UserID:        userID,
		WordID:        w.ID,
		CorrectAnswer: w.PrimaryTranslation(),
		ErrorType:     models.ErrorTypeMeaning,
	}); err != nil {
		a.logger.Warn("failed to add wrong word", zap.Int64("word_id", w.ID), zap.Error(err))
	}
	if _, err := a.client.CreateReviewSchedule(ctx, models.ReviewScheduleRequest{
		UserID:         userID,
		WordID:         w.ID,
		ReviewDate:     models.NewTimestamp(a.now().AddDate(0, 0, 1)),
		MemoryStrength: srs.DefaultEasiness,
	}); err != nil {
		a.logger.Warn("failed to schedule review", zap.Int64("word_id", w.ID), zap.Error(err))
	}
}

// flashcards runs the known/unknown loop over words.
func (a *App) flashcards(ctx context.Context, userID int64, words []models.Word) error {
	if len(words) == 0 {
		a.println("No words to study.")
		return nil
	}
	known, unknown := 0, 0
	for i, w := range words {
		a.printf("\n[%d/%d] %s\n", i+1, len(words), w.Word)
		answer, err := a.prompt("[k]now  [u]nknown  [f]avorite  [q]uit")
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "q", "quit":
			a.printf("\nKnown %d, unknown %d\n", known, unknown)
			return nil
		case "f", "fav":
			if err := a.client.FavoriteWord(ctx, userID, w.ID); err != nil {
				a.printf("Could not favorite: %v\n", err)
			} else {
				a.println("Added to favorites.")
			}
			a.logStudy(ctx, userID, w.ID, models.StatusLearning, 50)
		case "k", "known":
			a.logStudy(ctx, userID, w.ID, models.StatusKnown, 100)
			known++
		default:
			a.markUnknown(ctx, userID, w)
			unknown++
		}
		a.printf("  %s\n", w.Meaning())
		for _, p := range w.Phrases {
			a.printf("  • %s %s\n", p.Phrase, p.Translation)
		}
	}
	a.printf("\nKnown %d, unknown %d\n", known, unknown)
	return nil
}

func newStudyCmd(app *App) *cobra.Command {
	var (
		listID int64
		count  int
	)
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			return app.flashcards(ctx, sess.User.ID, app.drawWords(ctx, listID, count))
		},
	}
	cmd.Flags().Int64Var(&listID, "list", 0, "study one word list")
	cmd.Flags().IntVarP(&count, "count", "n", defaultStudyCount, "number of cards")
	return cmd
}

func newSpellCmd(app *App) *cobra.Command {
	var (
		listID int64
		count  int
	)
	cmd := &cobra.Command{
		Use:   "spell",
		Short: "Spelling practice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			words := app.drawWords(ctx, listID, count)
			if len(words) == 0 {
				app.println("No words to practise.")
				return nil
			}

			correct := 0
			for i, w := range words {
				app.printf("\n[%d/%d] %s\n", i+1, len(words), w.Meaning())
				if cloze := quiz.Cloze(w); cloze != "" {
					app.printf("  %s\n", cloze)
				}
				answer, err := app.prompt("Spell it")
				if errors.Is(err, errQuit) {
					break
				}
				if err != nil {
					return err
				}
				if quiz.CheckSpelling(answer, w) {
					correct++
					app.println("Correct!")
					app.logStudy(ctx, sess.User.ID, w.ID, models.StatusKnown, 100)
					continue
				}
				app.printf("Wrong, it is %q.\n", w.Word)
				app.logStudy(ctx, sess.User.ID, w.ID, models.StatusUnknown, 0)
				if _, err := app.client.AddWrongWord(ctx, models.WrongWordRequest{
					UserID:        sess.User.ID,
					WordID:        w.ID,
					UserAnswer:    answer,
					CorrectAnswer: w.Word,
					ErrorType:     models.ErrorTypeSpelling,
				}); err != nil {
					app.logger.Warn("failed to add wrong word", zap.Int64("word_id", w.ID), zap.Error(err))
				}
			}
			app.printf("\nSpelled %d of %d correctly\n", correct, len(words))
			return nil
		},
	}
	cmd.Flags().Int64Var(&listID, "list", 0, "practise one word list")
	cmd.Flags().IntVarP(&count, "count", "n", defaultStudyCount, "number of words")
	return cmd
}

func newTestCmd(app *App) *cobra.Command {
	var (
		count      int
		difficulty string
		history    bool
	)
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Multiple-choice vocabulary test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if history {
				return app.testHistory(ctx, sess.User.ID)
			}

			questions := app.client.GenerateTestQuestions(ctx, count, difficulty)
			if len(questions) == 0 {
				app.println("No questions available.")
				return nil
			}
			answers := make([]string, len(questions))
			for i, q := range questions {
				app.printf("\n[%d/%d] %s\n", i+1, len(questions), q.Question)
				for j, opt := range q.Options {
					app.printf("  %d) %s\n", j+1, opt)
				}
				answer, err := app.prompt("Answer (number or text)")
				if errors.Is(err, errQuit) {
					break
				}
				if err != nil {
					return err
				}
				if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
					answer = q.Options[n-1]
				}
				answers[i] = answer
				if quiz.IsCorrect(q, answer) {
					app.println("Correct!")
				} else {
					app.printf("Wrong, the answer is %q.\n", q.Answer)
				}
			}

			correct, score := quiz.Grade(questions, answers)
			result, err := app.client.SubmitTestResult(ctx, models.TestSubmission{
				UserID:         sess.User.ID,
				Questions:      questions,
				Answers:        answers,
				Score:          score,
				TotalQuestions: len(questions),
				CorrectAnswers: correct,
			})
			if err != nil {
				return fmt.Errorf("failed to submit test: %w", err)
			}
			app.printf("\nScore: %.0f%% (%d/%d)\n", result.Score, result.CorrectAnswers, result.TotalQuestions)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", defaultStudyCount, "number of questions")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "only words of this difficulty")
	cmd.Flags().BoolVar(&history, "history", false, "show past results instead")
	return cmd
}

func (a *App) testHistory(ctx context.Context, userID int64) error {
	results := a.client.GetTestHistory(ctx, userID, 0)
	if len(results) == 0 {
		a.println("No tests taken yet.")
		return nil
	}
	tw := newTable(a.out, "DATE", "TYPE", "SCORE", "CORRECT")
	for _, r := range results {
		row(tw, r.TestDate.Format(time.DateTime), r.TestType,
			fmt.Sprintf("%.0f%%", r.Score), fmt.Sprintf("%d/%d", r.CorrectAnswers, r.TotalQuestions))
	}
	return tw.Flush()
}
