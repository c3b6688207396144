// Package srs schedules word reviews with the SuperMemo-2 algorithm.
package srs

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/wordbook/pkg/models"
)

// Quality is the recall grade of one review, 0 (blackout) to 5 (perfect).
type Quality int

const (
	QualityBlackout          Quality = 0
	QualityIncorrect         Quality = 1
	QualityIncorrectFamiliar Quality = 2
	QualityCorrectDifficult  Quality = 3
	QualityCorrectHesitation Quality = 4
	QualityPerfect           Quality = 5
)

// Valid reports whether q is within 0..5.
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// DefaultEasiness is the easiness factor of a word never reviewed.
const DefaultEasiness = 2.5

const minEasiness = 1.3

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Grades at or above PassThreshold count as recalled.
	PassThreshold Quality
	// MaxInterval caps the interval in days.
	MaxInterval int
	// InitialIntervals are used for the first successful repetitions.
	InitialIntervals []int
}

// NewSM2 returns SM2 with the default settings.
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold:    QualityCorrectDifficult,
		MaxInterval:      365,
		InitialIntervals: []int{1, 2, 3, 7, 10, 15, 20, 30},
	}
}

// Initial returns a fresh schedule for a word, due immediately.
func (sm *SM2) Initial(userID, wordID int64, now time.Time) models.ReviewSchedule {
	return models.ReviewSchedule{
		UserID:         userID,
		WordID:         wordID,
		ReviewDate:     models.NewTimestamp(now),
		MemoryStrength: DefaultEasiness,
	}
}

// Grade applies one review to rs. MemoryStrength holds the easiness factor
// and RepeatCount the number of consecutive successful repetitions.
func (sm *SM2) Grade(rs *models.ReviewSchedule, quality Quality, now time.Time) error {
	if !quality.Valid() {
		return fmt.Errorf("quality %d out of range 0-5", quality)
	}

	ef := rs.MemoryStrength
	if ef <= 0 {
		ef = DefaultEasiness
	}
	q := float64(quality)
	ef += 0.1 - (5.0-q)*(0.08+(5.0-q)*0.02)
	if ef < minEasiness {
		ef = minEasiness
	}
	rs.MemoryStrength = ef

	if quality >= sm.PassThreshold {
		var next int
		if rs.RepeatCount < len(sm.InitialIntervals) {
			next = sm.InitialIntervals[rs.RepeatCount]
		} else {
			next = int(float64(max(rs.IntervalDays, 1)) * ef)
		}
		rs.IntervalDays = min(next, sm.MaxInterval)
		rs.RepeatCount++
	} else {
		rs.RepeatCount = 0
		rs.IntervalDays = 1
	}

	rs.ReviewDate = models.NewTimestamp(now.AddDate(0, 0, rs.IntervalDays))
	return nil
}

// Due returns the schedules due at now, hardest and most overdue first,
// capped at limit when limit > 0.
func Due(schedules []models.ReviewSchedule, now time.Time, limit int) []models.ReviewSchedule {
	due := make([]models.ReviewSchedule, 0, len(schedules))
	for _, s := range schedules {
		if !s.ReviewDate.After(now) {
			due = append(due, s)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		// never reviewed first
		if (a.RepeatCount == 0) != (b.RepeatCount == 0) {
			return a.RepeatCount == 0
		}
		if a.MemoryStrength != b.MemoryStrength {
			return a.MemoryStrength < b.MemoryStrength
		}
		return a.ReviewDate.Before(b.ReviewDate.Time)
	})

	if limit > 0 && len(due) > limit {
		return due[:limit]
	}
	return due
}

// IsMastered reports whether a word has been recalled often enough to be
// considered learned.
func (sm *SM2) IsMastered(rs models.ReviewSchedule) bool {
	return rs.RepeatCount >= 5 && rs.IntervalDays >= 30
}
