package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewSheetFlattensAndSorts(t *testing.T) {
	b := vocab.NewBundle()
	b.Add(vocab.Verbs, "correr")
	b.Add(vocab.Nouns, "mesa")
	b.Add(vocab.Nouns, "casa")

	s := NewSheet("lesson", vocab.Spanish, b, nil, nil)

	require.Len(t, s.Rows, 3)
	assert.Equal(t, "casa", s.Rows[0].Word)
	assert.Equal(t, "correr", s.Rows[1].Word)
	assert.Equal(t, "mesa", s.Rows[2].Word)
}

func TestSheetWriteFile(t *testing.T) {
	dir := t.TempDir()

	b := vocab.NewBundle()
	b.Add(vocab.Nouns, "casa")

	sentences := map[string]string{"casa": "La casa es grande"}
	glosses := map[string]string{
		"casa":              "house",
		"La casa es grande": "The house is big",
	}

	s := NewSheet("lesson one", vocab.Spanish, b, sentences, glosses)
	path, err := s.WriteFile(dir, testTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lesson_one_spanish_words_20240601_120000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Number", "Spanish Word", "Spanish Sentence", "English Word", "English Sentence",
	}, records[0])
	assert.Equal(t, []string{
		"1", "casa", "La casa es grande", "house", "The house is big",
	}, records[1])
}

func TestNewSheetSortIsCaseInsensitive(t *testing.T) {
	b := vocab.NewBundle()
	b.Add(vocab.Nouns, "zapato")
	b.Add(vocab.ProperNouns, "Madrid")
	b.Add(vocab.Nouns, "casa")

	s := NewSheet("lesson", vocab.Spanish, b, nil, nil)

	require.Len(t, s.Rows, 3)
	assert.Equal(t, "casa", s.Rows[0].Word)
	assert.Equal(t, "Madrid", s.Rows[1].Word)
	assert.Equal(t, "zapato", s.Rows[2].Word)
}

func TestSheetMissingLookupsLeaveBlanks(t *testing.T) {
	b := vocab.NewBundle()
	b.Add(vocab.Nouns, "casa")

	s := NewSheet("lesson", vocab.Spanish, b, nil, nil)
	require.Len(t, s.Rows, 1)
	assert.Empty(t, s.Rows[0].Sentence)
	assert.Empty(t, s.Rows[0].EnglishWord)
}

func TestFileName(t *testing.T) {
	assert.Equal(t,
		"mi_libro_spanish_words_20240601_120000.csv",
		FileName("mi libro!", vocab.Spanish, testTime))
	assert.Equal(t,
		"deck_french_words_20240601_120000.csv",
		FileName("  ", vocab.French, testTime))
}

func TestCategorySheets(t *testing.T) {
	b := vocab.NewBundle()
	b.Add(vocab.Nouns, "casa")
	b.Add(vocab.Verbs, "correr")

	sheets := CategorySheets("lesson", vocab.Spanish, b, nil, nil)
	require.Len(t, sheets, 2)
	assert.Equal(t, "lesson_nouns", sheets[0].Base)
	assert.Equal(t, "lesson_verbs", sheets[1].Base)
	require.Len(t, sheets[0].Rows, 1)
	assert.Equal(t, "casa", sheets[0].Rows[0].Word)
}
