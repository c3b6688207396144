package errorbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbook/pkg/models"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func record(id, wordID int64, word string, count int, hoursAgo int, errType string, translations ...string) models.WrongWord {
	w := &models.Word{ID: wordID, Word: word}
	for _, t := range translations {
		w.Translations = append(w.Translations, models.Translation{Translation: t})
	}
	return models.WrongWord{
		ID:            id,
		WordID:        wordID,
		WrongCount:    count,
		LastWrongTime: models.NewTimestamp(base.Add(-time.Duration(hoursAgo) * time.Hour)),
		ErrorType:     errType,
		Word:          w,
	}
}

func TestAddKeepsLatestPerWord(t *testing.T) {
	b := New([]models.WrongWord{
		record(1, 10, "apple", 1, 48, models.ErrorTypeMeaning),
		record(2, 10, "apple", 3, 1, models.ErrorTypeSpelling),
		record(3, 10, "apple", 2, 24, models.ErrorTypeMeaning),
		record(4, 20, "banana", 1, 5, models.ErrorTypeMeaning),
	})

	require.Equal(t, 2, b.Len())
	got, ok := b.Get(10)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, models.ErrorTypeSpelling, got.ErrorType)
}

func TestAddTieKeepsHigherCount(t *testing.T) {
	b := New(nil)
	b.Add(record(1, 10, "apple", 4, 0, models.ErrorTypeMeaning))
	b.Add(record(2, 10, "apple", 2, 0, models.ErrorTypeMeaning))
	got, _ := b.Get(10)
	assert.Equal(t, int64(1), got.ID)
}

func TestEntriesSortAndFilter(t *testing.T) {
	b := New([]models.WrongWord{
		record(1, 1, "cherry", 2, 3, models.ErrorTypeMeaning, "樱桃"),
		record(2, 2, "Apple", 5, 10, models.ErrorTypeSpelling, "苹果"),
		record(3, 3, "banana", 1, 1, models.ErrorTypeMeaning, "香蕉"),
	})

	words := func(rs []models.WrongWord) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Word.Word)
		}
		return out
	}

	assert.Equal(t, []string{"Apple", "cherry", "banana"}, words(b.Entries(Filter{}, ByErrorCount)))
	assert.Equal(t, []string{"banana", "cherry", "Apple"}, words(b.Entries(Filter{}, ByLastError)))
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, words(b.Entries(Filter{}, ByWord)))

	assert.Equal(t, []string{"Apple"}, words(b.Entries(Filter{Search: "APP"}, ByWord)))
	assert.Equal(t, []string{"banana"}, words(b.Entries(Filter{Search: "香"}, ByWord)))
	assert.Equal(t, []string{"banana", "cherry"}, words(b.Entries(Filter{ErrorType: models.ErrorTypeMeaning}, ByWord)))
	assert.Empty(t, b.Entries(Filter{Search: "zzz"}, ByWord))
}

func TestRemove(t *testing.T) {
	b := New([]models.WrongWord{
		record(1, 10, "apple", 1, 0, models.ErrorTypeMeaning),
		record(2, 20, "banana", 1, 0, models.ErrorTypeMeaning),
	})

	assert.True(t, b.Remove(2))
	assert.False(t, b.Remove(2))
	assert.True(t, b.RemoveWord(10))
	assert.False(t, b.RemoveWord(10))
	assert.Zero(t, b.Len())
}

func TestSummarize(t *testing.T) {
	b := New([]models.WrongWord{
		record(1, 10, "apple", 3, 0, models.ErrorTypeMeaning),
		record(2, 20, "banana", 2, 0, models.ErrorTypeSpelling),
		record(3, 30, "cherry", 1, 0, models.ErrorTypeSpelling),
	})
	s := b.Summarize()
	assert.Equal(t, 3, s.Words)
	assert.Equal(t, 6, s.TotalMistakes)
	assert.Equal(t, map[string]int{models.ErrorTypeMeaning: 1, models.ErrorTypeSpelling: 2}, s.ByErrorType)
}

func TestParseSortBy(t *testing.T) {
	for in, want := range map[string]SortBy{"": ByErrorCount, "count": ByErrorCount, "recent": ByLastError, "word": ByWord} {
		got, ok := ParseSortBy(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseSortBy("random")
	assert.False(t, ok)
}
