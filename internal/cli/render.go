package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/wordbook/internal/stats"
	"github.com/example/wordbook/pkg/models"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func formatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(dateLayout)
}

func printDashboard(w io.Writer, d *models.DashboardData) {
	fmt.Fprintf(w, "Studied today:   %d\n", d.TodayStudied)
	fmt.Fprintf(w, "Due for review:  %d\n", d.TodayReview)
	fmt.Fprintf(w, "Mastered:        %d / %d\n", d.MasteredWords, d.TotalWords)
	fmt.Fprintf(w, "Streak:          %d days\n", d.Streak)
	fmt.Fprintf(w, "Accuracy:        %.0f%%\n", d.Accuracy)
	fmt.Fprintf(w, "Weekly goal:     %d / %d\n", d.WeeklyProgress, d.WeeklyGoal)
	if len(d.RecentWords) > 0 {
		words := make([]string, 0, len(d.RecentWords))
		for _, r := range d.RecentWords {
			words = append(words, r.Word)
		}
		fmt.Fprintf(w, "Recent words:    %s\n", strings.Join(words, ", "))
	}
	if len(d.UpcomingReviews) > 0 {
		fmt.Fprintln(w, "Upcoming:")
		for _, u := range d.UpcomingReviews {
			fmt.Fprintf(w, "  %s (%s)\n", u.Word, u.Type)
		}
	}
}

func printStatistics(w io.Writer, s stats.Statistics) {
	fmt.Fprintf(w, "Words:            %d (mastered %d)\n", s.TotalWords, s.MasteredWords)
	fmt.Fprintf(w, "Study days:       %d\n", s.StudyDays)
	fmt.Fprintf(w, "Longest streak:   %d\n", s.Streak)
	fmt.Fprintf(w, "Average accuracy: %.1f%%\n", s.AverageAccuracy)

	fmt.Fprintf(w, "\nLast 7 days  [%s]\n", stats.Sparkline(s.WeeklyCounts()))
	tw := newTable(w, "DATE", "LOGS")
	for _, d := range s.WeeklyProgress {
		row(tw, d.Date, d.Count)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nLast 6 months [%s]\n", stats.Sparkline(s.MonthlyCounts()))
	tw = newTable(w, "MONTH", "LOGS")
	for _, m := range s.MonthlyData {
		row(tw, m.Month, m.Count)
	}
	tw.Flush()

	if len(s.CategoryProgress) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w, "CATEGORY", "PROGRESS")
		for _, c := range s.CategoryProgress {
			row(tw, c.Category, fmt.Sprintf("%.0f%%", c.Progress))
		}
		tw.Flush()
	}
}

func printWords(w io.Writer, words []models.Word) {
	if len(words) == 0 {
		fmt.Fprintln(w, "No words.")
		return
	}
	tw := newTable(w, "ID", "WORD", "MEANING", "DIFFICULTY", "LIST")
	for _, wd := range words {
		row(tw, wd.ID, wd.Word, wd.Meaning(), orDash(wd.Difficulty), wd.ListID)
	}
	tw.Flush()
}

func printLists(w io.Writer, lists []models.WordList) {
	if len(lists) == 0 {
		fmt.Fprintln(w, "No word lists.")
		return
	}
	tw := newTable(w, "ID", "NAME", "WORDS", "DIFFICULTY", "PUBLIC", "CREATED")
	for _, l := range lists {
		row(tw, l.ID, l.Name, l.WordCount, orDash(l.Difficulty), l.IsPublic, formatDate(l.CreateTime))
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := newTable(w, "ID", "USERNAME", "ROLE", "EMAIL", "CREATED")
	for _, u := range users {
		row(tw, u.ID, u.Username, u.Role, orDash(u.Email), formatDate(u.CreateTime))
	}
	tw.Flush()
}

func printReviews(w io.Writer, schedules []models.ReviewSchedule, now time.Time) {
	if len(schedules) == 0 {
		fmt.Fprintln(w, "No reviews scheduled.")
		return
	}
	tw := newTable(w, "ID", "WORD", "DUE", "REPEATS", "EASINESS", "")
	for _, s := range schedules {
		word := fmt.Sprintf("#%d", s.WordID)
		if s.Word != nil {
			word = s.Word.Word
		}
		due := ""
		if !s.ReviewDate.After(now) {
			due = "due"
		}
		row(tw, s.ID, word, formatDate(s.ReviewDate), s.RepeatCount, fmt.Sprintf("%.2f", s.MemoryStrength), due)
	}
	tw.Flush()
}

func printWrongWords(w io.Writer, records []models.WrongWord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "Your error book is empty.")
		return
	}
	tw := newTable(w, "ID", "WORD", "MISSES", "TYPE", "LAST", "YOUR ANSWER")
	for _, r := range records {
		word := fmt.Sprintf("#%d", r.WordID)
		if r.Word != nil {
			word = r.Word.Word
		}
		row(tw, r.ID, word, r.WrongCount, r.ErrorType, formatDate(r.LastWrongTime), orDash(r.UserAnswer))
	}
	tw.Flush()
}

func printCheckIns(w io.Writer, logs []models.CheckInLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No check-ins yet.")
		return
	}
	tw := newTable(w, "DATE", "WORDS", "MINUTES", "ACCURACY")
	for _, l := range logs {
		row(tw, l.CheckInDate, l.WordCount, l.StudyDuration, fmt.Sprintf("%.0f%%", l.AccuracyRate))
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
