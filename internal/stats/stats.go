// Package stats derives study statistics from raw study logs. Every function
// here is pure: the reference time is always passed in.
package stats

import (
	"sort"
	"time"

	"github.com/example/wordbook/pkg/models"
)

const (
	// WeekDays is the length of the weekly series.
	WeekDays = 7
	// Months is the length of the monthly series.
	Months = 6
)

// DayCount is one slot of the weekly series. Date is YYYY-MM-DD.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MonthCount is one slot of the monthly series. Month is the short month name.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// CategoryProgress is the progress percentage of one category.
type CategoryProgress struct {
	Category string  `json:"category"`
	Progress float64 `json:"progress"`
}

// Statistics is the derived view shown on the statistics page.
type Statistics struct {
	TotalWords       int                `json:"totalWords"`
	MasteredWords    int                `json:"masteredWords"`
	StudyDays        int                `json:"studyDays"`
	Streak           int                `json:"streak"`
	AverageAccuracy  float64            `json:"averageAccuracy"`
	WeeklyProgress   [WeekDays]DayCount `json:"weeklyProgress"`
	CategoryProgress []CategoryProgress `json:"categoryProgress"`
	MonthlyData      [Months]MonthCount `json:"monthlyData"`
}

// Aggregate folds study logs and the two backend summaries into Statistics.
// Calendar days and months are taken in now's location.
func Aggregate(logs []models.StudyLog, mastery models.MasterySummary, categories []models.CategoryStat, now time.Time) Statistics {
	times := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		times = append(times, l.StudyTime.Time)
	}
	days := Days(times, now.Location())

	mastered := mastery.MasteredWords
	if mastered > mastery.TotalWords {
		mastered = mastery.TotalWords
	}
	if mastered < 0 {
		mastered = 0
	}

	progress := make([]CategoryProgress, 0, len(categories))
	for _, c := range categories {
		progress = append(progress, CategoryProgress{Category: c.Category, Progress: c.Progress})
	}

	return Statistics{
		TotalWords:       mastery.TotalWords,
		MasteredWords:    mastered,
		StudyDays:        len(days),
		Streak:           LongestRun(days),
		AverageAccuracy:  AverageAccuracy(logs, now.Location()),
		WeeklyProgress:   WeeklySeries(times, now),
		CategoryProgress: progress,
		MonthlyData:      MonthlySeries(times, now),
	}
}

// Days collapses times into the sorted set of distinct calendar dates in loc,
// each represented as returned by Date. Zero times are ignored.
func Days(times []time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(times))
	days := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		d := Date(t, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// StudyDays is the number of distinct calendar days among times.
func StudyDays(times []time.Time, loc *time.Location) int {
	return len(Days(times, loc))
}

// Streak is the longest run of consecutive calendar days among times.
func Streak(times []time.Time, loc *time.Location) int {
	return LongestRun(Days(times, loc))
}

// LongestRun returns the longest run of consecutive dates in days, which
// must be sorted distinct dates as returned by Days.
func LongestRun(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// CurrentStreak returns the run of consecutive days that ends today, or
// yesterday when today has no entry yet. days must be sorted distinct dates
// as returned by Days; today's calendar date is taken in its own location.
func CurrentStreak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}
	expected := Date(today, today.Location())
	last := days[len(days)-1]
	if !last.Equal(expected) {
		expected = expected.AddDate(0, 0, -1)
		if !last.Equal(expected) {
			return 0
		}
	}
	run := 0
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i].Equal(expected) {
			break
		}
		run++
		expected = expected.AddDate(0, 0, -1)
	}
	return run
}

// WeeklySeries counts entries per day for today and the six preceding days,
// oldest first.
func WeeklySeries(times []time.Time, now time.Time) [WeekDays]DayCount {
	var series [WeekDays]DayCount
	loc := now.Location()
	start := Date(now, loc).AddDate(0, 0, -(WeekDays - 1))
	index := make(map[string]int, WeekDays)
	for i := range series {
		label := start.AddDate(0, 0, i).Format(models.DateLayout)
		series[i].Date = label
		index[label] = i
	}
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		if i, ok := index[t.In(loc).Format(models.DateLayout)]; ok {
			series[i].Count++
		}
	}
	return series
}

// MonthlySeries counts entries per calendar month for the current month and
// the five preceding months, oldest first.
func MonthlySeries(times []time.Time, now time.Time) [Months]MonthCount {
	var series [Months]MonthCount
	loc := now.Location()
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month()-(Months-1), 1, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i].Month = start.AddDate(0, i, 0).Month().String()[:3]
	}
	base := monthIndex(start)
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		offset := monthIndex(t.In(loc)) - base
		if offset >= 0 && offset < Months {
			series[offset].Count++
		}
	}
	return series
}

// AverageAccuracy divides the summed per-entry accuracy by the number of
// distinct study days. It is 0 when there are no study days.
func AverageAccuracy(logs []models.StudyLog, loc *time.Location) float64 {
	times := make([]time.Time, 0, len(logs))
	var sum float64
	for _, l := range logs {
		if l.StudyTime.IsZero() {
			continue
		}
		times = append(times, l.StudyTime.Time)
		sum += l.Accuracy()
	}
	days := len(Days(times, loc))
	if days == 0 {
		return 0
	}
	return sum / float64(days)
}

// Date returns the calendar date of t in loc as midnight UTC. Local midnight
// may not exist on a DST change, so dates are compared and stepped in UTC.
func Date(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
