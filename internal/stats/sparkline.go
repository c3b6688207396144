package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// WeeklyCounts extracts the counts of a weekly series.
func (s Statistics) WeeklyCounts() []float64 {
	out := make([]float64, 0, WeekDays)
	for _, d := range s.WeeklyProgress {
		out = append(out, float64(d.Count))
	}
	return out
}

// MonthlyCounts extracts the counts of a monthly series.
func (s Statistics) MonthlyCounts() []float64 {
	out := make([]float64, 0, Months)
	for _, m := range s.MonthlyData {
		out = append(out, float64(m.Count))
	}
	return out
}
