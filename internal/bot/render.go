package bot

import (
	"fmt"
	"strings"

	"github.com/example/wordbook/internal/errorbook"
	"github.com/example/wordbook/internal/stats"
	"github.com/example/wordbook/pkg/models"
)

const helpText = `📚 Wordbook

/login <username> <password> - log in
/register <username> <password> [email] - create an account
/logout - log out
/dashboard - today's overview
/study - flashcards
/spell - spelling practice
/review - words due for review
/errors - your error book
/stats - study statistics
/checkin - daily check-in`

func welcomeText(name string) string {
	if name == "" {
		return "👋 Welcome to Wordbook!\n\nLog in with /login or create an account with /register."
	}
	return fmt.Sprintf("👋 Welcome back, %s!\n\nWhat would you like to do?", name)
}

func reminderText(count int) string {
	if count == 1 {
		return "⏰ You have 1 word waiting for review."
	}
	return fmt.Sprintf("⏰ You have %d words waiting for review.", count)
}

func cardText(w models.Word) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 %s\n", w.Word)
	if w.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", w.Difficulty)
	}
	b.WriteString("\nDo you know this word?")
	return b.String()
}

func answerText(w models.Word) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 %s\n%s", w.Word, w.Meaning())
	for _, p := range w.Phrases {
		fmt.Fprintf(&b, "\n• %s", p.Phrase)
		if p.Translation != "" {
			fmt.Fprintf(&b, " (%s)", p.Translation)
		}
	}
	return b.String()
}

func dashboardText(d *models.DashboardData) string {
	var b strings.Builder
	b.WriteString("📋 Dashboard\n\n")
	fmt.Fprintf(&b, "Studied today: %d\n", d.TodayStudied)
	fmt.Fprintf(&b, "Due for review: %d\n", d.TodayReview)
	fmt.Fprintf(&b, "Mastered: %d / %d\n", d.MasteredWords, d.TotalWords)
	fmt.Fprintf(&b, "Streak: %d days\n", d.Streak)
	fmt.Fprintf(&b, "Accuracy: %.0f%%\n", d.Accuracy)
	fmt.Fprintf(&b, "Weekly goal: %d / %d\n", d.WeeklyProgress, d.WeeklyGoal)
	if len(d.RecentWords) > 0 {
		words := make([]string, 0, len(d.RecentWords))
		for _, w := range d.RecentWords {
			words = append(words, w.Word)
		}
		fmt.Fprintf(&b, "\nRecent: %s", strings.Join(words, ", "))
	}
	return b.String()
}

func statsText(s stats.Statistics) string {
	var b strings.Builder
	b.WriteString("📊 Statistics\n\n")
	fmt.Fprintf(&b, "Words: %d (mastered %d)\n", s.TotalWords, s.MasteredWords)
	fmt.Fprintf(&b, "Study days: %d\n", s.StudyDays)
	fmt.Fprintf(&b, "Streak: %d\n", s.Streak)
	fmt.Fprintf(&b, "Average accuracy: %.1f%%\n", s.AverageAccuracy)
	fmt.Fprintf(&b, "\nLast 7 days  [%s]\n", stats.Sparkline(s.WeeklyCounts()))
	fmt.Fprintf(&b, "Last 6 months [%s]", stats.Sparkline(s.MonthlyCounts()))
	for _, c := range s.CategoryProgress {
		fmt.Fprintf(&b, "\n%s: %.0f%%", c.Category, c.Progress)
	}
	return b.String()
}

func errorBookText(book *errorbook.Book, limit int) string {
	if book.Len() == 0 {
		return "🎉 Your error book is empty."
	}
	sum := book.Summarize()
	var b strings.Builder
	fmt.Fprintf(&b, "📕 Error book: %d words, %d mistakes\n", sum.Words, sum.TotalMistakes)
	for i, r := range book.Entries(errorbook.Filter{}, errorbook.ByErrorCount) {
		if limit > 0 && i == limit {
			fmt.Fprintf(&b, "\n… and %d more", sum.Words-limit)
			break
		}
		word := fmt.Sprintf("#%d", r.WordID)
		if r.Word != nil {
			word = r.Word.Word
		}
		fmt.Fprintf(&b, "\n%d. %s ×%d (%s)", i+1, word, r.WrongCount, r.ErrorType)
	}
	return b.String()
}

func checkInText(resp *models.CheckInResponse) string {
	if resp.AlreadyCheckedIn {
		return "✅ You have already checked in today."
	}
	return "✅ Checked in! Keep it up."
}
