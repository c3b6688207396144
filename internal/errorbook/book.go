// Package errorbook indexes a user's wrong-word records by word so that
// each word appears once, with its most recent record.
package errorbook

import (
	"sort"
	"strings"

	"github.com/example/wordbook/pkg/models"
)

// SortBy selects the order of Entries.
type SortBy int

const (
	// ByErrorCount puts the most frequently missed words first.
	ByErrorCount SortBy = iota
	// ByLastError puts the most recently missed words first.
	ByLastError
	// ByWord orders alphabetically.
	ByWord
)

// ParseSortBy maps "count", "recent" and "word" to a SortBy.
func ParseSortBy(s string) (SortBy, bool) {
	switch s {
	case "count", "":
		return ByErrorCount, true
	case "recent":
		return ByLastError, true
	case "word", "alpha":
		return ByWord, true
	}
	return ByErrorCount, false
}

// Filter narrows Entries. Zero fields match everything.
type Filter struct {
	// Search matches the word case-insensitively or any translation.
	Search string
	// ErrorType matches the record's error type exactly.
	ErrorType string
}

// Book holds the latest wrong-word record per word.
type Book struct {
	byWord map[int64]models.WrongWord
}

// New builds a book from records in any order.
func New(records []models.WrongWord) *Book {
	b := &Book{byWord: make(map[int64]models.WrongWord, len(records))}
	for _, r := range records {
		b.Add(r)
	}
	return b
}

// Add ingests a record, keeping it only if it is newer than the one held for
// its word. Ties keep the record with the higher wrong count.
func (b *Book) Add(r models.WrongWord) {
	cur, ok := b.byWord[r.WordID]
	if ok {
		if r.LastWrongTime.Before(cur.LastWrongTime.Time) {
			return
		}
		if r.LastWrongTime.Equal(cur.LastWrongTime.Time) && r.WrongCount < cur.WrongCount {
			return
		}
	}
	b.byWord[r.WordID] = r
}

// Get returns the record held for wordID.
func (b *Book) Get(wordID int64) (models.WrongWord, bool) {
	r, ok := b.byWord[wordID]
	return r, ok
}

// Remove drops the record with the given record id.
func (b *Book) Remove(id int64) bool {
	for wordID, r := range b.byWord {
		if r.ID == id {
			delete(b.byWord, wordID)
			return true
		}
	}
	return false
}

// RemoveWord drops the record held for wordID.
func (b *Book) RemoveWord(wordID int64) bool {
	if _, ok := b.byWord[wordID]; !ok {
		return false
	}
	delete(b.byWord, wordID)
	return true
}

// Len is the number of distinct words in the book.
func (b *Book) Len() int {
	return len(b.byWord)
}

// Summary counts the book's words and total mistakes.
type Summary struct {
	Words         int
	TotalMistakes int
	ByErrorType   map[string]int
}

// Summarize returns counters over the whole book.
func (b *Book) Summarize() Summary {
	s := Summary{Words: len(b.byWord), ByErrorType: make(map[string]int)}
	for _, r := range b.byWord {
		s.TotalMistakes += r.WrongCount
		s.ByErrorType[r.ErrorType]++
	}
	return s
}

// Entries returns the records matching f in the requested order.
func (b *Book) Entries(f Filter, order SortBy) []models.WrongWord {
	out := make([]models.WrongWord, 0, len(b.byWord))
	for _, r := range b.byWord {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		switch order {
		case ByLastError:
			if !a.LastWrongTime.Equal(c.LastWrongTime.Time) {
				return a.LastWrongTime.After(c.LastWrongTime.Time)
			}
		case ByWord:
			if wa, wc := wordText(a), wordText(c); wa != wc {
				return wa < wc
			}
		default:
			if a.WrongCount != c.WrongCount {
				return a.WrongCount > c.WrongCount
			}
		}
		return a.WordID < c.WordID
	})
	return out
}

func (f Filter) matches(r models.WrongWord) bool {
	if f.ErrorType != "" && r.ErrorType != f.ErrorType {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(wordText(r), q) {
		return true
	}
	if r.Word != nil {
		for _, t := range r.Word.Translations {
			if strings.Contains(strings.ToLower(t.Translation), q) {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(r.CorrectAnswer), q)
}

func wordText(r models.WrongWord) string {
	if r.Word == nil {
		return ""
	}
	return strings.ToLower(r.Word.Word)
}
