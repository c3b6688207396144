package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/api"
	"github.com/example/wordbook/pkg/models"
)

func newStatsCmd(app *App) *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Study statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if global {
				g, err := app.client.GetGlobalStatistics(ctx)
				if err != nil {
					return fmt.Errorf("failed to load global statistics: %w", err)
				}
				app.printf("Users:     %d (active %d; today %d, week %d, month %d)\n",
					g.TotalUsers, g.ActiveUsers, g.DailyActiveUsers, g.WeeklyActiveUsers, g.MonthlyActiveUsers)
				app.printf("Words:     %d in %d lists\n", g.TotalWords, g.TotalWordLists)
				app.printf("Accuracy:  %.1f%%\n", g.AverageAccuracy)
				if len(g.PopularWords) > 0 {
					app.println("\nMost studied:")
					printWords(app.out, g.PopularWords)
				}
				return nil
			}
			printStatistics(app.out, app.client.GetStudyStatistics(ctx, sess.User.ID, app.now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "site-wide numbers")
	return cmd
}

func newCheckInCmd(app *App) *cobra.Command {
	today := func(cmd *cobra.Command, _ []string) error {
		ctx, sess, err := app.requireSession(cmd.Context())
		if err != nil {
			return err
		}
		req := models.CheckInRequest{UserID: sess.User.ID}
		if d, err := app.client.GetDashboardData(ctx, sess.User.ID); err == nil {
			req.WordCount = d.TodayStudied
			req.AccuracyRate = d.Accuracy
		}
		resp, err := app.client.CheckInToday(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to check in: %w", err)
		}
		if resp.AlreadyCheckedIn {
			app.println("You have already checked in today.")
		} else {
			app.println("Checked in!")
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Daily check-in",
		Args:  cobra.NoArgs,
		RunE:  today,
	}
	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Check in for today",
		Args:  cobra.NoArgs,
		RunE:  today,
	}
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Check-in streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			s, err := app.client.GetCheckInStats(ctx, sess.User.ID)
			if err != nil {
				return fmt.Errorf("failed to load check-in stats: %w", err)
			}
			app.printf("Current streak: %d\nLongest streak: %d\nTotal:          %d\nThis month:     %d\n",
				s.CurrentStreak, s.LongestStreak, s.TotalCheckIns, s.ThisMonthCheckIns)
			return nil
		},
	}
	var limit int
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Recent check-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			printCheckIns(app.out, app.client.GetCheckInLogs(ctx, sess.User.ID, limit))
			return nil
		},
	}
	logsCmd.Flags().IntVarP(&limit, "limit", "n", 30, "maximum entries")

	cmd.AddCommand(todayCmd, statsCmd, logsCmd)
	return cmd
}

func newSearchCmd(app *App) *cobra.Command {
	var searchType string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search words, lists and users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			switch searchType {
			case api.SearchAll, api.SearchWords, api.SearchLists, api.SearchUsers:
			default:
				return fmt.Errorf("unknown search type %q", searchType)
			}
			res := app.client.GlobalSearch(ctx, args[0], searchType)
			if searchType == api.SearchAll || searchType == api.SearchWords {
				app.println("Words:")
				printWords(app.out, res.Words)
			}
			if searchType == api.SearchAll || searchType == api.SearchLists {
				app.println("\nLists:")
				printLists(app.out, res.Lists)
			}
			if searchType == api.SearchAll || searchType == api.SearchUsers {
				app.println("\nUsers:")
				printUsers(app.out, res.Users)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&searchType, "type", "t", api.SearchAll, "all, words, lists or users")
	return cmd
}
