package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/errorbook"
	"github.com/example/wordbook/internal/srs"
	"github.com/example/wordbook/pkg/models"
)

func newReviewCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the words that are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			return app.reviewDue(ctx, sess.User.ID, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum words per session")

	var dueOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the review schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			schedules := app.client.GetReviewSchedule(ctx, sess.User.ID)
			if dueOnly {
				schedules = srs.Due(schedules, app.now(), 0)
			}
			printReviews(app.out, schedules, app.now())
			return nil
		},
	}
	listCmd.Flags().BoolVar(&dueOnly, "due", false, "only words due now")

	addCmd := &cobra.Command{
		Use:   "add <word-id>",
		Short: "Schedule a word for review now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			wordID, err := parseID(args[0])
			if err != nil {
				return err
			}
			rs, err := app.client.CreateReviewSchedule(ctx, models.ReviewScheduleRequest{
				UserID:         sess.User.ID,
				WordID:         wordID,
				ReviewDate:     models.NewTimestamp(app.now()),
				MemoryStrength: srs.DefaultEasiness,
			})
			if err != nil {
				return fmt.Errorf("failed to schedule review: %w", err)
			}
			app.printf("Scheduled review %d for word %d\n", rs.ID, wordID)
			return nil
		},
	}

	gradeCmd := &cobra.Command{
		Use:   "grade <schedule-id> <quality 0-5>",
		Short: "Grade one review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			q, err := parseQuality(args[1])
			if err != nil {
				return err
			}
			rs, err := app.client.GradeReview(ctx, id, int(q))
			if err != nil {
				return fmt.Errorf("failed to grade review: %w", err)
			}
			app.printf("Next review on %s (in %d days)\n", formatDate(rs.ReviewDate), rs.IntervalDays)
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, gradeCmd)
	return cmd
}

func parseQuality(s string) (srs.Quality, error) {
	n, err := strconv.Atoi(s)
	q := srs.Quality(n)
	if err != nil || !q.Valid() {
		return 0, fmt.Errorf("quality must be 0-5, got %q", s)
	}
	return q, nil
}

func (a *App) reviewDue(ctx context.Context, userID int64, limit int) error {
	due := srs.Due(a.client.GetReviewSchedule(ctx, userID), a.now(), limit)
	if len(due) == 0 {
		a.println("Nothing to review right now.")
		return nil
	}
	for i, rs := range due {
		w := rs.Word
		if w == nil {
			if w, _ = a.client.GetWord(ctx, rs.WordID); w == nil {
				continue
			}
		}
		a.printf("\n[%d/%d] %s\n", i+1, len(due), w.Word)
		if _, err := a.prompt("Press Enter to reveal"); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			return err
		}
		a.printf("  %s\n", w.Meaning())

		var q srs.Quality
		for {
			answer, err := a.prompt("How well did you remember? 0 (forgot) - 5 (perfect)")
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			if q, err = parseQuality(answer); err == nil {
				break
			}
			a.println(err.Error())
		}
		next, err := a.client.GradeReview(ctx, rs.ID, int(q))
		if err != nil {
			return fmt.Errorf("failed to grade review: %w", err)
		}
		a.printf("  next review on %s\n", formatDate(next.ReviewDate))
	}
	return nil
}

func newErrorsCmd(app *App) *cobra.Command {
	var (
		sortBy    string
		search    string
		errorType string
	)
	listRun := func(cmd *cobra.Command, _ []string) error {
		ctx, sess, err := app.requireSession(cmd.Context())
		if err != nil {
			return err
		}
		order, ok := errorbook.ParseSortBy(sortBy)
		if !ok {
			return fmt.Errorf("unknown sort %q, use count, recent or word", sortBy)
		}
		book := errorbook.New(app.client.GetWrongWords(ctx, sess.User.ID))
		entries := book.Entries(errorbook.Filter{Search: search, ErrorType: errorType}, order)
		printWrongWords(app.out, entries)
		if len(entries) > 0 {
			sum := book.Summarize()
			app.printf("\n%d words, %d mistakes\n", sum.Words, sum.TotalMistakes)
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Error book",
		Args:  cobra.NoArgs,
		RunE:  listRun,
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List missed words",
		Args:  cobra.NoArgs,
		RunE:  listRun,
	}
	for _, c := range []*cobra.Command{cmd, listCmd} {
		c.Flags().StringVar(&sortBy, "sort", "count", "count, recent or word")
		c.Flags().StringVarP(&search, "search", "s", "", "filter by word or translation")
		c.Flags().StringVar(&errorType, "type", "", "meaning or spelling")
	}

	removeCmd := &cobra.Command{
		Use:   "remove <record-id>",
		Short: "Delete an error-book record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.client.RemoveWrongWord(ctx, id); err != nil {
				return fmt.Errorf("failed to remove record: %w", err)
			}
			app.println("Removed.")
			return nil
		},
	}

	masterCmd := &cobra.Command{
		Use:   "master <word-id>",
		Short: "Mark a word as mastered and drop it from the error book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			wordID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.client.MarkWrongWordMastered(ctx, sess.User.ID, wordID); err != nil {
				return fmt.Errorf("failed to mark mastered: %w", err)
			}
			app.println("Marked as mastered.")
			return nil
		},
	}

	cmd.AddCommand(listCmd, removeCmd, masterCmd)
	return cmd
}
