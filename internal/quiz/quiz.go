// Package quiz builds multiple-choice questions and grades answers.
package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/example/wordbook/pkg/models"
)

// OptionCount is the number of choices per question, the answer included.
const OptionCount = 4

const blank = "_______"

// Generate picks up to count words with at least one translation and builds
// one question per word, alternating en-to-cn and cn-to-en. Distractors are
// taken from the same list first, then from the other words.
func Generate(words []models.Word, count int, rnd *rand.Rand) []models.TestQuestion {
	pool := make([]models.Word, 0, len(words))
	for _, w := range words {
		if w.Word != "" && w.PrimaryTranslation() != "" {
			pool = append(pool, w)
		}
	}
	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	picked := pool
	if count > 0 && len(picked) > count {
		picked = pool[:count]
	}

	questions := make([]models.TestQuestion, 0, len(picked))
	for i, w := range picked {
		qType := models.QuestionEnToCn
		if i%2 == 1 {
			qType = models.QuestionCnToEn
		}
		questions = append(questions, build(w, qType, pool, rnd))
	}
	return questions
}

func build(w models.Word, qType string, pool []models.Word, rnd *rand.Rand) models.TestQuestion {
	q := models.TestQuestion{
		ID:         w.ID,
		Type:       qType,
		Word:       w.Word,
		Difficulty: w.Difficulty,
	}

	pick := func(o models.Word) string { return o.PrimaryTranslation() }
	if qType == models.QuestionEnToCn {
		q.Question = fmt.Sprintf("What does %q mean?", w.Word)
		q.Answer = w.PrimaryTranslation()
	} else {
		q.Question = fmt.Sprintf("Which word means %q?", w.PrimaryTranslation())
		q.Answer = w.Word
		pick = func(o models.Word) string { return o.Word }
	}

	options := append(distractors(w, pool, pick, OptionCount-1, rnd), q.Answer)
	rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	q.Options = options
	return q
}

// distractors returns up to n distinct wrong options for w, preferring
// words from w's own list.
func distractors(w models.Word, pool []models.Word, pick func(models.Word) string, n int, rnd *rand.Rand) []string {
	var same, other []models.Word
	for _, o := range pool {
		if o.ID == w.ID && o.Word == w.Word {
			continue
		}
		if o.ListID == w.ListID {
			same = append(same, o)
		} else {
			other = append(other, o)
		}
	}
	rnd.Shuffle(len(same), func(i, j int) { same[i], same[j] = same[j], same[i] })
	rnd.Shuffle(len(other), func(i, j int) { other[i], other[j] = other[j], other[i] })

	seen := map[string]bool{strings.ToLower(pick(w)): true}
	out := make([]string, 0, n)
	for _, o := range append(same, other...) {
		if len(out) == n {
			break
		}
		opt := pick(o)
		key := strings.ToLower(opt)
		if opt == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, opt)
	}
	return out
}

// Grade counts correct answers, matched positionally and case-insensitively,
// and returns the score as a percentage.
func Grade(questions []models.TestQuestion, answers []string) (correct int, score float64) {
	if len(questions) == 0 {
		return 0, 0
	}
	for i, q := range questions {
		if i < len(answers) && IsCorrect(q, answers[i]) {
			correct++
		}
	}
	return correct, float64(correct) * 100 / float64(len(questions))
}

// IsCorrect reports whether answer matches the question's answer.
func IsCorrect(q models.TestQuestion, answer string) bool {
	return normalize(answer) == normalize(q.Answer)
}

// CheckSpelling compares a typed answer against a word, ignoring case and
// surrounding whitespace.
func CheckSpelling(answer string, w models.Word) bool {
	return normalize(answer) != "" && normalize(answer) == normalize(w.Word)
}

// Cloze returns the first phrase of w with the word blanked out, or an empty
// string when w has no phrase.
func Cloze(w models.Word) string {
	for _, p := range w.Phrases {
		if p.Phrase != "" {
			return replaceWordWithBlank(p.Phrase, w.Word)
		}
	}
	return ""
}

// replaceWordWithBlank blanks the first case-insensitive occurrence of word,
// or appends a blank when the sentence does not contain it.
func replaceWordWithBlank(sentence, word string) string {
	if word == "" {
		return sentence
	}
	i := strings.Index(strings.ToLower(sentence), strings.ToLower(word))
	if i < 0 || len(strings.ToLower(sentence)) != len(sentence) {
		return sentence + " " + blank
	}
	return sentence[:i] + blank + sentence[i+len(word):]
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
