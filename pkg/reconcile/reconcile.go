// Package reconcile partitions freshly extracted vocabulary against the
// learner's known-word set.
package reconcile

import (
	"log/slog"
	"strings"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/anki"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// KnownSource supplies the aggregate known-word set for a language. It is
// implemented by storage.Store; tests inject in-memory fakes.
type KnownSource interface {
	KnownWords(lang vocab.Language) (map[string]struct{}, error)
}

// DecodeFunc turns an archive path into its vocabulary bundle.
type DecodeFunc func(path string) (vocab.Bundle, error)

// Engine computes the new/known partition of a word bundle.
type Engine struct {
	Known  KnownSource
	Decode DecodeFunc
	Log    *slog.Logger
}

// New builds an engine over the given known-word source, decoding extra
// sources with the Anki codec.
func New(known KnownSource) *Engine {
	return &Engine{Known: known, Decode: anki.Decode, Log: slog.Default()}
}

// Reconcile splits fresh into the words not yet known and the words
// already known, against the store's aggregate set for lang plus any extra
// archive sources. Extra sources may arrive in the selector display form
// "Name (actual/path)"; unreadable sources are logged and skipped.
//
// Both outputs carry exactly the category keys of fresh. Matching is
// case-folded; a combined form counts as known when either side matches.
// A word sighted a second time anywhere in fresh is dropped from both
// outputs. The duplicate-drop behavior is deliberate, so
// reversing it is a matter of routing second sightings instead of
// skipping them.
func (e *Engine) Reconcile(fresh vocab.Bundle, lang vocab.Language, extraSources []string) (newWords, existingWords vocab.Bundle) {
	known := e.knownSet(lang, extraSources)

	newWords = make(vocab.Bundle, len(fresh))
	existingWords = make(vocab.Bundle, len(fresh))
	for cat := range fresh {
		newWords[cat] = []string{}
		existingWords[cat] = []string{}
	}

	seen := make(map[string]struct{})
	for _, cat := range fresh.Keys() {
		for _, word := range fresh[cat] {
			folded := vocab.Fold(word)
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}

			if isKnown(known, word) {
				existingWords[cat] = append(existingWords[cat], word)
			} else {
				newWords[cat] = append(newWords[cat], word)
			}
		}
	}
	return newWords, existingWords
}

// knownSet merges the stored known words with the vocabulary of each extra
// source, case-folded and combined-form expanded.
func (e *Engine) knownSet(lang vocab.Language, extraSources []string) map[string]struct{} {
	known, err := e.Known.KnownWords(lang)
	if err != nil {
		e.Log.Warn("known-word aggregation failed, reconciling against extra sources only", "error", err)
		known = nil
	}
	if known == nil {
		known = make(map[string]struct{})
	}

	for _, src := range extraSources {
		path := UnwrapSelector(src)
		bundle, err := e.Decode(path)
		if err != nil {
			e.Log.Warn("skipping unreadable comparison deck", "source", path, "error", err)
			continue
		}
		for _, words := range bundle {
			for _, w := range words {
				vocab.ExpandInto(known, w)
			}
		}
	}
	return known
}

// isKnown reports whether word, or either side of a combined form, is in
// the case-folded known set.
func isKnown(known map[string]struct{}, word string) bool {
	for _, part := range vocab.SplitCombined(word) {
		if _, ok := known[vocab.Fold(part)]; ok {
			return true
		}
	}
	return false
}

// UnwrapSelector strips the deck-selector decoration "Name (actual/path)"
// down to the actual path. Undecorated strings pass through unchanged.
func UnwrapSelector(s string) string {
	idx := strings.Index(s, " (")
	if idx < 0 {
		return s
	}
	path := s[idx+2:]
	return strings.TrimSuffix(path, ")")
}
