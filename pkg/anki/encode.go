package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Note field layout, mirrored by Decode.
const (
	fieldWord = iota
	fieldTranslation
	fieldPartOfSpeech
	fieldExample
	fieldAudio
	fieldCount
)

var fieldNames = [fieldCount]string{"Word", "Translation", "Part of Speech", "Example", "Audio"}

// collectionSchema is the minimal Anki 2 collection layout: enough for any
// Anki client (and Decode) to read the notes back.
const collectionSchema = `
CREATE TABLE col (
	id INTEGER PRIMARY KEY,
	crt INTEGER NOT NULL,
	mod INTEGER NOT NULL,
	scm INTEGER NOT NULL,
	ver INTEGER NOT NULL,
	dty INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	ls INTEGER NOT NULL,
	conf TEXT NOT NULL,
	models TEXT NOT NULL,
	decks TEXT NOT NULL,
	dconf TEXT NOT NULL,
	tags TEXT NOT NULL
);
CREATE TABLE notes (
	id INTEGER PRIMARY KEY,
	guid TEXT NOT NULL,
	mid INTEGER NOT NULL,
	mod INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	tags TEXT NOT NULL,
	flds TEXT NOT NULL,
	sfld TEXT NOT NULL,
	csum INTEGER NOT NULL,
	flags INTEGER NOT NULL,
	data TEXT NOT NULL
);
CREATE TABLE cards (
	id INTEGER PRIMARY KEY,
	nid INTEGER NOT NULL,
	did INTEGER NOT NULL,
	ord INTEGER NOT NULL,
	mod INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	type INTEGER NOT NULL,
	queue INTEGER NOT NULL,
	due INTEGER NOT NULL,
	ivl INTEGER NOT NULL,
	factor INTEGER NOT NULL,
	reps INTEGER NOT NULL,
	lapses INTEGER NOT NULL,
	left INTEGER NOT NULL,
	odue INTEGER NOT NULL,
	odid INTEGER NOT NULL,
	flags INTEGER NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX ix_notes_csum ON notes (csum);
CREATE INDEX ix_cards_nid ON cards (nid);
`

// Encode builds an .apkg flashcard package at outPath from the bundle and,
// word by word, the optional audio file mapping. It also writes the sidecar
// metadata file next to outPath so the package round-trips without a
// database read. The written archive is decodable by Decode.
func Encode(bundle vocab.Bundle, audio map[string]string, deckName string, lang vocab.Language, outPath string) error {
	workDir, err := os.MkdirTemp("", "llamalang-apkg-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	dbPath := filepath.Join(workDir, "collection.anki2")
	media, err := writeCollection(dbPath, bundle, audio, deckName, lang)
	if err != nil {
		return fmt.Errorf("build collection: %w", err)
	}

	if err := writePackage(outPath, dbPath, media); err != nil {
		return fmt.Errorf("package %s: %w", outPath, err)
	}
	if err := WriteSidecar(outPath, bundle); err != nil {
		return err
	}
	return nil
}

// writeCollection creates the collection database and returns the audio
// files referenced by notes, in manifest order.
func writeCollection(dbPath string, bundle vocab.Bundle, audio map[string]string, deckName string, lang vocab.Language) ([]string, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Exec(collectionSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	now := time.Now()
	modelID := randomID()
	deckID := randomID()
	if err := insertCol(conn, now, modelID, deckID, deckName, lang); err != nil {
		return nil, err
	}

	tx, err := conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var media []string
	noteID := now.UnixMilli()
	for _, cat := range bundle.Keys() {
		for _, word := range bundle[cat] {
			fields := [fieldCount]string{
				fieldWord:         word,
				fieldTranslation:  "",
				fieldPartOfSpeech: string(cat),
				fieldExample:      "",
				fieldAudio:        "",
			}
			if path, ok := audio[word]; ok {
				fields[fieldAudio] = fmt.Sprintf("[sound:%s]", filepath.Base(path))
				media = append(media, path)
			}
			flds := fields[0]
			for _, f := range fields[1:] {
				flds += fieldSeparator + f
			}
			_, err := tx.Exec(
				`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
				 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
				noteID, uuid.NewString(), modelID, now.Unix(), flds, word, fieldChecksum(word),
			)
			if err != nil {
				return nil, fmt.Errorf("insert note %q: %w", word, err)
			}
			_, err = tx.Exec(
				`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
				 VALUES (?, ?, ?, 0, ?, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				noteID+1, noteID, deckID, now.Unix(),
			)
			if err != nil {
				return nil, fmt.Errorf("insert card for %q: %w", word, err)
			}
			noteID += 2
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return media, nil
}

func insertCol(conn *sql.DB, now time.Time, modelID, deckID int64, deckName string, lang vocab.Language) error {
	tmpl := map[string]any{
		"name": "Card 1",
		"ord":  0,
		"qfmt": "{{Word}}<br>{{Part of Speech}}",
		"afmt": "{{FrontSide}}<hr id=\"answer\">{{Translation}}<br>{{Example}}<br>{{Audio}}",
	}
	var flds []map[string]any
	for ord, name := range fieldNames {
		flds = append(flds, map[string]any{"name": name, "ord": ord, "font": "Arial", "size": 20})
	}
	models := map[string]any{
		strconv.FormatInt(modelID, 10): map[string]any{
			"id":    modelID,
			"name":  fmt.Sprintf("%s Vocabulary", lang),
			"did":   deckID,
			"flds":  flds,
			"tmpls": []any{tmpl},
			"css":   ".card { font-family: Arial; font-size: 20px; text-align: center; }",
		},
	}
	decks := map[string]any{
		strconv.FormatInt(deckID, 10): map[string]any{
			"id":   deckID,
			"name": deckName,
			"desc": "",
		},
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}
	decksJSON, err := json.Marshal(decks)
	if err != nil {
		return err
	}
	_, err = conn.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, '{}', ?, ?, '{}', '{}')`,
		now.Unix(), now.UnixMilli(), now.UnixMilli(), string(modelsJSON), string(decksJSON),
	)
	return err
}

// writePackage zips the collection database, the media manifest and the
// media files (stored under their manifest index) into outPath.
func writePackage(outPath, dbPath string, media []string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if err := addZipFile(zw, "collection.anki2", dbPath); err != nil {
		return err
	}

	manifest := make(map[string]string, len(media))
	for i, path := range media {
		name := strconv.Itoa(i)
		manifest[name] = filepath.Base(path)
		if err := addZipFile(zw, name, path); err != nil {
			return err
		}
	}
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	w, err := zw.Create("media")
	if err != nil {
		return err
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return nil
}

func addZipFile(zw *zip.Writer, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// fieldChecksum is Anki's note checksum: the first 4 bytes of the SHA-1 of
// the sort field, as an integer.
func fieldChecksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

func randomID() int64 {
	return rand.Int63n(1<<31-1<<30) + 1<<30
}
