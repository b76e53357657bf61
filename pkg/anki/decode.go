// Package anki reads and writes Anki flashcard packages (.apkg): a zip
// container holding a SQLite note collection plus media files, with a JSON
// sidecar metadata file as a fast-path cache of the deck's vocabulary.
package anki

import (
	"archive/zip"
	"database/sql"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/morph"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// fieldSeparator splits the fields of a note's flds column.
const fieldSeparator = "\x1f"

// Candidate collection databases inside an .apkg, newest schema first.
var collectionNames = []string{"collection.anki21", "collection.anki2"}

var (
	reTag   = regexp.MustCompile(`<[^>]*>`)
	reSound = regexp.MustCompile(`\[sound:[^\]]*\]`)
)

// Decode extracts the vocabulary of an .apkg archive as a category-keyed
// bundle. Categories come from the note's part-of-speech field when one is
// present, otherwise from the deterministic suffix heuristic for the
// language inferred from the archive filename.
//
// Decode fails softly: on any I/O or parse error it returns an empty bundle
// with every canonical category present, alongside the error, so callers
// can apply a skip-and-continue policy without shape checks.
func Decode(archivePath string) (vocab.Bundle, error) {
	bundle := vocab.NewBundle()
	lang := vocab.LanguageFromFilename(filepath.Base(archivePath))

	dbPath, cleanup, err := extractCollection(archivePath)
	if err != nil {
		return bundle, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer cleanup()

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return bundle, fmt.Errorf("open collection db: %w", err)
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT DISTINCT flds FROM notes WHERE flds <> ''`)
	if err != nil {
		return bundle, fmt.Errorf("read notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var flds string
		if err := rows.Scan(&flds); err != nil {
			return vocab.NewBundle(), fmt.Errorf("scan note: %w", err)
		}
		fields := strings.Split(flds, fieldSeparator)
		word := CleanField(fields[0])
		if !keepWord(word) {
			continue
		}
		cat := morph.Classify(word, lang)
		// A structured part-of-speech field overrides the heuristic.
		if len(fields) > fieldPartOfSpeech && strings.TrimSpace(fields[fieldPartOfSpeech]) != "" {
			cat = vocab.ParseCategory(fields[fieldPartOfSpeech])
		}
		bundle.Add(cat, word)
	}
	if err := rows.Err(); err != nil {
		return vocab.NewBundle(), fmt.Errorf("iterate notes: %w", err)
	}
	return bundle, nil
}

// extractCollection copies the embedded collection database out of the zip
// container into a temp file and returns its path plus a cleanup func.
func extractCollection(archivePath string) (string, func(), error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	var entry *zip.File
	for _, name := range collectionNames {
		for _, f := range zr.File {
			if f.Name == name {
				entry = f
				break
			}
		}
		if entry != nil {
			break
		}
	}
	if entry == nil {
		return "", nil, fmt.Errorf("no collection database in archive")
	}

	src, err := entry.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "llamalang-collection-*.anki2")
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// CleanField strips HTML markup, sound tags and entity escapes from a note
// field, collapsing the result to a bare word string.
func CleanField(s string) string {
	s = reSound.ReplaceAllString(s, "")
	s = reTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// keepWord applies the sentence filter: a candidate must be non-empty,
// contain at least one letter or digit, and span at most 3 tokens.
func keepWord(w string) bool {
	if w == "" {
		return false
	}
	if len(strings.Fields(w)) > 3 {
		return false
	}
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
