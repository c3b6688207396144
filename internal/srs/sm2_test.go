package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbook/pkg/models"
)

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestGradeProgression(t *testing.T) {
	sm := NewSM2()
	rs := sm.Initial(1, 2, now)
	assert.Equal(t, now, rs.ReviewDate.Time)

	wantIntervals := []int{1, 2, 3, 7, 10, 15, 20, 30}
	for i, want := range wantIntervals {
		require.NoError(t, sm.Grade(&rs, QualityCorrectHesitation, now))
		assert.Equal(t, want, rs.IntervalDays, "repetition %d", i+1)
		assert.Equal(t, i+1, rs.RepeatCount)
	}
	assert.Equal(t, now.AddDate(0, 0, 30), rs.ReviewDate.Time)
	assert.True(t, sm.IsMastered(rs))

	// Past the fixed intervals the interval grows by the easiness factor.
	require.NoError(t, sm.Grade(&rs, QualityPerfect, now))
	assert.Equal(t, int(30*rs.MemoryStrength), rs.IntervalDays)
}

func TestGradeFailureResets(t *testing.T) {
	sm := NewSM2()
	rs := models.ReviewSchedule{RepeatCount: 6, IntervalDays: 40, MemoryStrength: 2.2}

	require.NoError(t, sm.Grade(&rs, QualityIncorrect, now))
	assert.Zero(t, rs.RepeatCount)
	assert.Equal(t, 1, rs.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 1), rs.ReviewDate.Time)
	assert.False(t, sm.IsMastered(rs))
}

func TestEasinessFloor(t *testing.T) {
	sm := NewSM2()
	rs := sm.Initial(1, 1, now)
	for i := 0; i < 10; i++ {
		require.NoError(t, sm.Grade(&rs, QualityBlackout, now))
	}
	assert.InDelta(t, 1.3, rs.MemoryStrength, 1e-9)
}

func TestIntervalCap(t *testing.T) {
	sm := NewSM2()
	rs := models.ReviewSchedule{RepeatCount: 20, IntervalDays: 300, MemoryStrength: 2.8}
	require.NoError(t, sm.Grade(&rs, QualityPerfect, now))
	assert.Equal(t, 365, rs.IntervalDays)
}

func TestGradeRejectsOutOfRange(t *testing.T) {
	rs := models.ReviewSchedule{}
	assert.Error(t, NewSM2().Grade(&rs, Quality(6), now))
	assert.Error(t, NewSM2().Grade(&rs, Quality(-1), now))
}

func TestDue(t *testing.T) {
	at := func(d int) models.Timestamp { return models.NewTimestamp(now.AddDate(0, 0, d)) }
	schedules := []models.ReviewSchedule{
		{ID: 1, ReviewDate: at(-1), RepeatCount: 2, MemoryStrength: 2.5},
		{ID: 2, ReviewDate: at(-3), RepeatCount: 3, MemoryStrength: 2.5},
		{ID: 3, ReviewDate: at(0), RepeatCount: 0, MemoryStrength: 2.5},
		{ID: 4, ReviewDate: at(2), RepeatCount: 0, MemoryStrength: 1.3},
		{ID: 5, ReviewDate: at(-1), RepeatCount: 1, MemoryStrength: 1.5},
	}

	ids := func(rs []models.ReviewSchedule) []int64 {
		out := make([]int64, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []int64{3, 5, 2, 1}, ids(Due(schedules, now, 0)))
	assert.Equal(t, []int64{3, 5}, ids(Due(schedules, now, 2)))
	assert.Empty(t, Due(nil, now, 0))
}
