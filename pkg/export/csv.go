// Package export writes vocabulary study sheets as CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/storage"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Row is one line of a study sheet. Translation fields may be empty
// when no translation service was configured.
type Row struct {
	Word            string
	Sentence        string
	EnglishWord     string
	EnglishSentence string
}

// Sheet collects rows for a language plus the source deck base name.
type Sheet struct {
	Base     string
	Language vocab.Language
	Rows     []Row
}

// NewSheet flattens a bundle into rows sorted alphabetically across
// categories. Sentences and glosses are looked up per word; missing
// entries leave the column blank.
func NewSheet(base string, lang vocab.Language, b vocab.Bundle, sentences, glosses map[string]string) *Sheet {
	var words []string
	for _, cat := range b.Keys() {
		words = append(words, b[cat]...)
	}
	sort.Slice(words, func(i, j int) bool { return vocab.Fold(words[i]) < vocab.Fold(words[j]) })

	s := &Sheet{Base: base, Language: lang}
	for _, w := range words {
		s.Rows = append(s.Rows, Row{
			Word:            w,
			Sentence:        sentences[w],
			EnglishWord:     glosses[w],
			EnglishSentence: glosses[sentences[w]],
		})
	}
	return s
}

var headerCaser = cases.Title(language.English)

func (s *Sheet) header() []string {
	lang := headerCaser.String(string(s.Language))
	return []string{
		"Number",
		lang + " Word",
		lang + " Sentence",
		"English Word",
		"English Sentence",
	}
}

// Write emits the sheet to w, numbering rows from 1.
func (s *Sheet) Write(w *csv.Writer) error {
	if err := w.Write(s.header()); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for i, row := range s.Rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.Word,
			row.Sentence,
			row.EnglishWord,
			row.EnglishSentence,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write CSV row %d: %w", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteFile writes the sheet into dir using the standard file name and
// returns the full path.
func (s *Sheet) WriteFile(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(s.Base, s.Language, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create CSV %s: %w", path, err)
	}
	defer f.Close()

	if err := s.Write(csv.NewWriter(f)); err != nil {
		return "", err
	}
	return path, nil
}

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// FileName builds `{base}_{language}_words_{timestamp}.csv`.
func FileName(base string, lang vocab.Language, now time.Time) string {
	base = reUnsafe.ReplaceAllString(strings.TrimSpace(base), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "deck"
	}
	return fmt.Sprintf("%s_%s_words_%s.csv", base, lang, now.Format(storage.TimestampLayout))
}

// CategorySheets splits a bundle into one sheet per non-empty category,
// with the category appended to the base name.
func CategorySheets(base string, lang vocab.Language, b vocab.Bundle, sentences, glosses map[string]string) []*Sheet {
	var sheets []*Sheet
	for _, cat := range b.Keys() {
		if len(b[cat]) == 0 {
			continue
		}
		sub := vocab.NewBundle()
		for _, w := range b[cat] {
			sub.Add(cat, w)
		}
		sheets = append(sheets, NewSheet(base+"_"+string(cat), lang, sub, sentences, glosses))
	}
	return sheets
}
