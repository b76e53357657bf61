// Package vocab defines the vocabulary domain model shared by the
// extraction, storage and reconciliation layers.
package vocab

import (
	"sort"
	"strings"
)

// Category is a grammatical category a word is filed under.
// The set is fixed; a bundle always carries every canonical key.
type Category string

const (
	Nouns       Category = "nouns"
	Verbs       Category = "verbs"
	Adjectives  Category = "adjectives"
	Adverbs     Category = "adverbs"
	ProperNouns Category = "proper_nouns"
	Pronouns    Category = "pronouns"
	Numbers     Category = "numbers"
	Other       Category = "other"
)

// Categories returns the canonical category order used for display and
// deterministic iteration.
func Categories() []Category {
	return []Category{Nouns, Verbs, Adjectives, Adverbs, ProperNouns, Pronouns, Numbers, Other}
}

// ParseCategory maps a category name to its canonical value. Unknown names
// fall through to Other.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Nouns, Verbs, Adjectives, Adverbs, ProperNouns, Pronouns, Numbers:
		return Category(strings.ToLower(strings.TrimSpace(s)))
	}
	return Other
}

// Bundle maps categories to ordered word lists. Within one bundle a
// case-folded word belongs to at most one category.
type Bundle map[Category][]string

// NewBundle returns a bundle with every canonical category present and empty.
func NewBundle() Bundle {
	b := make(Bundle, len(Categories()))
	for _, c := range Categories() {
		b[c] = []string{}
	}
	return b
}

// Add appends word to cat unless its case-folded form is already present in
// any category. It reports whether the word was added.
func (b Bundle) Add(cat Category, word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	folded := Fold(word)
	for _, words := range b {
		for _, w := range words {
			if Fold(w) == folded {
				return false
			}
		}
	}
	b[cat] = append(b[cat], word)
	return true
}

// Total returns the number of words across all categories.
func (b Bundle) Total() int {
	n := 0
	for _, words := range b {
		n += len(words)
	}
	return n
}

// Clone returns a deep copy of the bundle.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for cat, words := range b {
		cp := make([]string, len(words))
		copy(cp, words)
		out[cat] = cp
	}
	return out
}

// Keys returns the bundle's category keys: canonical categories first in
// canonical order, then any non-canonical keys sorted.
func (b Bundle) Keys() []Category {
	var keys []Category
	seen := make(map[Category]bool, len(b))
	for _, c := range Categories() {
		if _, ok := b[c]; ok {
			keys = append(keys, c)
			seen[c] = true
		}
	}
	var extra []Category
	for c := range b {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}

// Sort orders every category's word list alphabetically, case-insensitively.
func (b Bundle) Sort() {
	for _, words := range b {
		sort.Slice(words, func(i, j int) bool { return Fold(words[i]) < Fold(words[j]) })
	}
}

// Fold is the case-folding applied before any word comparison.
func Fold(w string) string { return strings.ToLower(w) }

// CombinedSeparator joins the two variants of a combined form, e.g.
// "bueno/buena".
const CombinedSeparator = "/"

// IsCombined reports whether w encodes two morphological variants.
func IsCombined(w string) bool { return strings.Contains(w, CombinedSeparator) }

// SplitCombined returns the constituent variants of w. A plain word yields
// itself as the only element.
func SplitCombined(w string) []string {
	if !IsCombined(w) {
		return []string{w}
	}
	parts := strings.Split(w, CombinedSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExpandInto folds w, combined or not, into set as its constituent parts.
func ExpandInto(set map[string]struct{}, w string) {
	for _, part := range SplitCombined(w) {
		set[Fold(part)] = struct{}{}
	}
}
