// Package storage implements the persistent word store: a directory of
// flashcard archives plus sidecar metadata files, named with the
// {base}[_{language}]_{YYYYMMDD_HHMMSS}{ext} convention.
package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// TimestampLayout is the wire format of the filename timestamp.
const TimestampLayout = "20060102_150405"

// zeroTimestamp sorts after every real timestamp in newest-first order.
const zeroTimestamp = "00000000_000000"

var reTimestamp = regexp.MustCompile(`\d{8}_\d{6}`)

var titleCaser = cases.Title(language.Und)

// DeckName is the parsed form of a stored deck filename.
type DeckName struct {
	// Base is the filename minus extension and timestamp.
	Base string
	// Timestamp is the embedded creation time; zero when absent.
	Timestamp time.Time
	// RawTimestamp is the timestamp token exactly as embedded, or
	// "00000000_000000" when the filename carries none.
	RawTimestamp string
	// Language inferred from the filename keyword table.
	Language vocab.Language
}

// ParseDeckName decomposes a stored deck filename. It never fails: a name
// without a valid timestamp parses with RawTimestamp set to the zero
// sentinel, and an unmatched language falls back to the default.
func ParseDeckName(filename string) DeckName {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	dn := DeckName{
		Base:         base,
		RawTimestamp: zeroTimestamp,
		Language:     vocab.LanguageFromFilename(filename),
	}
	for _, tok := range reTimestamp.FindAllString(base, -1) {
		ts, err := time.ParseInLocation(TimestampLayout, tok, time.Local)
		if err != nil {
			continue
		}
		dn.Timestamp = ts
		dn.RawTimestamp = tok
		dn.Base = strings.Trim(strings.Replace(base, tok, "", 1), "_- ")
		break
	}
	return dn
}

// DisplayName renders the parsed name for listings: separators become
// spaces and words are title-cased.
func (dn DeckName) DisplayName() string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(dn.Base)
	name = strings.Join(strings.Fields(name), " ")
	return titleCaser.String(name)
}

// BuildStoredName composes the storage filename for a deck. The language
// qualifier is inserted only when base does not already mention the
// language, so re-saving a stored deck never stacks qualifiers.
func BuildStoredName(base string, lang vocab.Language, at time.Time, ext string) string {
	if ext == "" {
		ext = ".apkg"
	}
	name := base
	if !vocab.MentionsLanguage(base, lang) {
		name = fmt.Sprintf("%s_%s", base, lang)
	}
	return fmt.Sprintf("%s_%s%s", name, at.Format(TimestampLayout), ext)
}
