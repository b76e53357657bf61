package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/anki"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// ArchiveExt is the flashcard package extension the store manages.
const ArchiveExt = ".apkg"

// Deck is one stored flashcard package.
type Deck struct {
	DisplayName      string
	OriginalFilename string
	Path             string
	Timestamp        time.Time
	RawTimestamp     string
	Language         vocab.Language
	// Metadata marks a bare metadata file kept for backward compatibility
	// with stores that predate archive storage.
	Metadata bool
}

// Store is the durable registry of decks the learner already knows.
//
// Directory scans and mutations are unsynchronized: the store is built for
// a single interactive user, and concurrent Save/Delete calls on the same
// directory race on the filesystem.
type Store struct {
	Dir string
	Log *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates a store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{Dir: dir, Log: slog.Default(), now: time.Now}
}

// List enumerates stored decks, newest first; decks without a parseable
// timestamp sort last. A non-empty filter keeps only decks of that
// language (case-insensitive exact match).
func (s *Store) List(filter vocab.Language) ([]Deck, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan deck storage: %w", err)
	}

	var decks []Deck
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(s.Dir, e.Name())
		ext := filepath.Ext(e.Name())
		isMetadata := false
		switch {
		case strings.EqualFold(ext, ArchiveExt):
		case ext == "":
			// Legacy stores held bare metadata files with no extension;
			// keep listing them as long as they parse.
			if _, err := anki.ReadMetadataFile(path); err != nil {
				continue
			}
			isMetadata = true
		default:
			continue
		}

		dn := ParseDeckName(e.Name())
		decks = append(decks, Deck{
			DisplayName:      dn.DisplayName(),
			OriginalFilename: e.Name(),
			Path:             path,
			Timestamp:        dn.Timestamp,
			RawTimestamp:     dn.RawTimestamp,
			Language:         dn.Language,
			Metadata:         isMetadata,
		})
	}

	if filter != "" {
		kept := decks[:0]
		for _, d := range decks {
			if strings.EqualFold(string(d.Language), string(filter)) {
				kept = append(kept, d)
			}
		}
		decks = kept
	}

	sort.SliceStable(decks, func(i, j int) bool {
		return decks[i].RawTimestamp > decks[j].RawTimestamp
	})
	return decks, nil
}

// Save copies an archive into storage under a collision-avoided name and
// snapshots its vocabulary as a sidecar. It is the only mutator that adds
// a deck. The stored path is returned.
func (s *Store) Save(archivePath, name string, lang vocab.Language) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create deck storage: %w", err)
	}

	if name == "" {
		name = filepath.Base(archivePath)
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	storedName := BuildStoredName(base, lang, s.now(), ext)
	storedPath := filepath.Join(s.Dir, storedName)

	if err := copyFile(archivePath, storedPath); err != nil {
		return "", fmt.Errorf("store deck %s: %w", archivePath, err)
	}

	// Fresh snapshot from the archive itself; fall back to whatever
	// sidecar traveled with the source archive.
	bundle, err := anki.Decode(storedPath)
	if err == nil {
		if werr := anki.WriteSidecar(storedPath, bundle); werr != nil {
			return "", werr
		}
		return storedPath, nil
	}
	s.Log.Warn("decode failed, keeping source sidecar", "archive", archivePath, "error", err)
	srcSidecar := anki.SidecarPath(archivePath)
	if _, serr := os.Stat(srcSidecar); serr == nil {
		if cerr := copyFile(srcSidecar, anki.SidecarPath(storedPath)); cerr != nil {
			return "", fmt.Errorf("copy sidecar: %w", cerr)
		}
	}
	return storedPath, nil
}

// Delete removes a stored deck and its sidecar. It reports success and
// never escalates filesystem errors: a missing archive is simply false.
func (s *Store) Delete(storedPath string) bool {
	if err := os.Remove(storedPath); err != nil {
		if !os.IsNotExist(err) {
			s.Log.Warn("delete deck", "path", storedPath, "error", err)
		}
		return false
	}
	sidecar := anki.SidecarPath(storedPath)
	if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
		s.Log.Warn("delete sidecar", "path", sidecar, "error", err)
	}
	return true
}

// Words loads a deck's vocabulary snapshot. The sidecar is the source of
// truth once present; on a sidecar miss the archive is decoded and the
// result cached as a fresh sidecar for the next lookup.
func (s *Store) Words(d Deck) (vocab.Bundle, error) {
	if d.Metadata {
		return anki.ReadMetadataFile(d.Path)
	}
	if bundle, err := anki.ReadSidecar(d.Path); err == nil {
		return bundle, nil
	}
	bundle, err := anki.Decode(d.Path)
	if err != nil {
		return bundle, err
	}
	if werr := anki.WriteSidecar(d.Path, bundle); werr != nil {
		s.Log.Warn("cache sidecar", "path", d.Path, "error", werr)
	}
	return bundle, nil
}

// KnownWords aggregates the case-folded vocabulary of every stored deck in
// the given language, with combined forms expanded into their parts. It is
// recomputed from disk on every call, so it can never drift from the deck
// collection; decks with missing or corrupt metadata are skipped.
func (s *Store) KnownWords(lang vocab.Language) (map[string]struct{}, error) {
	decks, err := s.List(lang)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{})
	for _, d := range decks {
		bundle, err := s.Words(d)
		if err != nil {
			s.Log.Warn("skipping unreadable deck", "deck", d.OriginalFilename, "error", err)
			continue
		}
		for _, words := range bundle {
			for _, w := range words {
				vocab.ExpandInto(known, w)
			}
		}
	}
	return known, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
