// Package importer reads vocabulary files and loads them into a word list
// through the API in parallel batches.
package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordbook/pkg/models"
)

// ErrInvalidFormat is wrapped by every parse failure caused by file content.
var ErrInvalidFormat = errors.New("invalid vocabulary data")

// ParseConfig describes where the fields live in a CSV or Excel sheet.
// Column letters follow spreadsheet notation (A, B, ... AA).
type ParseConfig struct {
	SheetName               string
	StartRow                int // 1-based; rows before it are headers
	WordColumn              string
	TranslationColumn       string
	TypeColumn              string
	PhraseColumn            string
	PhraseTranslationColumn string
	DifficultyColumn        string
}

// DefaultParseConfig returns the layout written by Export.
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		SheetName:               "Sheet1",
		StartRow:                2,
		WordColumn:              "A",
		TranslationColumn:       "B",
		TypeColumn:              "C",
		PhraseColumn:            "D",
		PhraseTranslationColumn: "E",
		DifficultyColumn:        "F",
	}
}

// ParseFile reads words from a .json, .csv or .xlsx file.
func ParseFile(path string, cfg ParseConfig) ([]models.Word, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON file: %w", err)
		}
		return ParseJSON(data)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ParseCSV(f, cfg)
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(sheetOrFirst(f, cfg.SheetName))
		if err != nil {
			return nil, fmt.Errorf("failed to get rows: %w", err)
		}
		return parseRows(rows, cfg)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

type jsonTranslation struct {
	Translation *string `json:"translation"`
	Type        *string `json:"type"`
}

type jsonPhrase struct {
	Phrase      *string `json:"phrase"`
	Translation *string `json:"translation"`
}

type jsonWord struct {
	Word         *string            `json:"word"`
	Translations *[]jsonTranslation `json:"translations"`
	Phrases      *[]jsonPhrase      `json:"phrases"`
	Difficulty   string             `json:"difficulty"`
}

// ParseJSON accepts one word object or an array of them. Every word needs a
// word string, a translations array of {translation, type} and a phrases
// array of {phrase, translation}; a single malformed entry rejects the input.
func ParseJSON(data []byte) ([]models.Word, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	var raw []jsonWord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	} else {
		var one jsonWord
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		raw = []jsonWord{one}
	}

	words := make([]models.Word, 0, len(raw))
	for i, r := range raw {
		w, err := r.toWord()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidFormat, i+1, err)
		}
		words = append(words, w)
	}
	return words, nil
}

func (r jsonWord) toWord() (models.Word, error) {
	if r.Word == nil {
		return models.Word{}, errors.New("missing word")
	}
	if r.Translations == nil {
		return models.Word{}, errors.New("missing translations")
	}
	if r.Phrases == nil {
		return models.Word{}, errors.New("missing phrases")
	}
	w := models.Word{
		Word:         *r.Word,
		Translations: make([]models.Translation, 0, len(*r.Translations)),
		Phrases:      make([]models.Phrase, 0, len(*r.Phrases)),
		Difficulty:   r.Difficulty,
	}
	for _, t := range *r.Translations {
		if t.Translation == nil || t.Type == nil {
			return models.Word{}, errors.New("translation needs translation and type")
		}
		w.Translations = append(w.Translations, models.Translation{Translation: *t.Translation, Type: *t.Type})
	}
	for _, p := range *r.Phrases {
		if p.Phrase == nil || p.Translation == nil {
			return models.Word{}, errors.New("phrase needs phrase and translation")
		}
		w.Phrases = append(w.Phrases, models.Phrase{Phrase: *p.Phrase, Translation: *p.Translation})
	}
	return w, nil
}

// ParseCSV reads rows in the configured column layout.
func ParseCSV(r io.Reader, cfg ParseConfig) ([]models.Word, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: error reading CSV: %v", ErrInvalidFormat, err)
	}
	return parseRows(rows, cfg)
}

// parseRows turns sheet rows into words. Consecutive rows with the same word
// are merged so a word can carry several translations and phrases.
func parseRows(rows [][]string, cfg ParseConfig) ([]models.Word, error) {
	var (
		words []models.Word
		index = make(map[string]int)
	)
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		text := cleanWord(cell(row, cfg.WordColumn))
		if text == "" {
			continue
		}

		pos, ok := index[strings.ToLower(text)]
		if !ok {
			words = append(words, models.Word{
				Word:         text,
				Translations: []models.Translation{},
				Phrases:      []models.Phrase{},
				Difficulty:   cell(row, cfg.DifficultyColumn),
			})
			pos = len(words) - 1
			index[strings.ToLower(text)] = pos
		}
		w := &words[pos]

		if tr := strings.TrimSpace(cell(row, cfg.TranslationColumn)); tr != "" {
			w.Translations = append(w.Translations, models.Translation{
				Translation: tr,
				Type:        strings.TrimSpace(cell(row, cfg.TypeColumn)),
			})
		}
		if ph := strings.TrimSpace(cell(row, cfg.PhraseColumn)); ph != "" {
			w.Phrases = append(w.Phrases, models.Phrase{
				Phrase:      ph,
				Translation: strings.TrimSpace(cell(row, cfg.PhraseTranslationColumn)),
			})
		}
	}

	for _, w := range words {
		if len(w.Translations) == 0 {
			return nil, fmt.Errorf("%w: word %q has no translation", ErrInvalidFormat, w.Word)
		}
	}
	return words, nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func sheetOrFirst(f *excelize.File, name string) string {
	if name != "" {
		if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
			return name
		}
	}
	return f.GetSheetName(0)
}

// cleanWord removes trailing notes in parentheses, e.g. "go (went, gone)".
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a zero-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
