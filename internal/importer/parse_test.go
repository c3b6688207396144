package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbook/pkg/models"
)

func TestParseJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		words, err := ParseJSON([]byte(`[
			{"word": "apple", "translations": [{"translation": "苹果", "type": "n"}], "phrases": [{"phrase": "apple pie", "translation": "苹果派"}]},
			{"word": "run", "translations": [{"translation": "跑", "type": "v"}], "phrases": []}
		]`))
		require.NoError(t, err)
		require.Len(t, words, 2)
		assert.Equal(t, "apple pie", words[0].Phrases[0].Phrase)
		assert.Equal(t, "v", words[1].Translations[0].Type)
		assert.NotNil(t, words[1].Phrases)
	})

	t.Run("single object", func(t *testing.T) {
		words, err := ParseJSON([]byte(`{"word": "cat", "translations": [], "phrases": []}`))
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "cat", words[0].Word)
	})

	invalid := map[string]string{
		"not json":            `{word: cat}`,
		"missing phrases":     `{"word": "cat", "translations": []}`,
		"word not string":     `{"word": 3, "translations": [], "phrases": []}`,
		"translation no type": `[{"word": "cat", "translations": [{"translation": "猫"}], "phrases": []}]`,
		"phrase no text":      `[{"word": "cat", "translations": [], "phrases": [{"translation": "x"}]}]`,
		"empty":               `   `,
	}
	for name, in := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParseCSVMergesRows(t *testing.T) {
	in := strings.Join([]string{
		"word,translation,type,phrase,phrase translation,difficulty",
		"go (went; gone),去,v,go home,回家,easy",
		"go,走,v,,,",
		"book,书,n,,,",
		",orphan,n,,,",
	}, "\n")

	words, err := ParseCSV(strings.NewReader(in), DefaultParseConfig())
	require.NoError(t, err)
	require.Len(t, words, 2)

	assert.Equal(t, "go", words[0].Word)
	assert.Equal(t, "easy", words[0].Difficulty)
	assert.Equal(t, []models.Translation{{Translation: "去", Type: "v"}, {Translation: "走", Type: "v"}}, words[0].Translations)
	assert.Equal(t, []models.Phrase{{Phrase: "go home", Translation: "回家"}}, words[0].Phrases)
	assert.Equal(t, "book", words[1].Word)
}

func TestParseCSVRequiresTranslation(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("h\nlonely,,,\n"), DefaultParseConfig())
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExportThenParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	words := []models.Word{
		{
			Word:         "light",
			Translations: []models.Translation{{Translation: "光", Type: "n"}, {Translation: "轻的", Type: "adj"}},
			Phrases:      []models.Phrase{{Phrase: "light year", Translation: "光年"}},
			Difficulty:   "medium",
		},
		{Word: "sky", Translations: []models.Translation{{Translation: "天空", Type: "n"}}, Phrases: []models.Phrase{}},
	}
	require.NoError(t, Export(words, path))

	got, err := ParseFile(path, DefaultParseConfig())
	require.NoError(t, err)
	assert.Equal(t, words, got)
}

func TestParseFileDispatch(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "words.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"word":"x","translations":[],"phrases":[]}`), 0o600))

	words, err := ParseFile(jsonPath, DefaultParseConfig())
	require.NoError(t, err)
	assert.Len(t, words, 1)

	_, err = ParseFile(filepath.Join(dir, "words.txt"), DefaultParseConfig())
	assert.ErrorContains(t, err, "unsupported")
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 25, columnToIndex("z"))
	assert.Equal(t, 26, columnToIndex("AA"))
}
