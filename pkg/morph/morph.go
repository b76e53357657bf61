// Package morph collapses paired morphological variants (gendered and
// plural adjective forms) into combined tokens such as "bueno/buena".
package morph

import (
	"sort"
	"strings"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// suffixPair describes two suffixes whose stems pair up, e.g. "o"/"a" for
// bueno/buena.
type suffixPair struct {
	a, b string
}

// Longer suffixes first so "os"/"as" wins over "o"/"a" for plurals.
var suffixPairs = map[vocab.Language][]suffixPair{
	vocab.Spanish: {
		{"os", "as"},
		{"o", "a"},
	},
	vocab.Italian: {
		{"i", "e"},
		{"o", "a"},
	},
}

// irregularPairs lists full-word variant pairs whose feminine form is not
// derivable by suffix substitution.
var irregularPairs = map[vocab.Language][][2]string{
	vocab.Spanish: {
		{"alemán", "alemana"},
		{"inglés", "inglesa"},
		{"francés", "francesa"},
		{"español", "española"},
		{"hablador", "habladora"},
		{"trabajador", "trabajadora"},
	},
}

// Supported reports whether lang has a pairing table. Unsupported languages
// pass through Combine unchanged (sorted).
func Supported(lang vocab.Language) bool {
	return len(suffixPairs[lang]) > 0 || len(irregularPairs[lang]) > 0
}

// Combine collapses variant pairs in words into combined forms and returns
// the sorted result. Matching is case-insensitive; the original spelling of
// each member is preserved in the output. Every input word appears exactly
// once: either inside one combined form or standalone. The operation is
// idempotent when combined outputs are expanded before re-entry.
func Combine(words []string, lang vocab.Language) []string {
	if !Supported(lang) {
		out := append([]string(nil), words...)
		sort.Slice(out, func(i, j int) bool { return vocab.Fold(out[i]) < vocab.Fold(out[j]) })
		return out
	}

	// Folded form -> original spelling. Later duplicates are dropped.
	originals := make(map[string]string, len(words))
	var order []string
	for _, w := range words {
		f := vocab.Fold(strings.TrimSpace(w))
		if f == "" {
			continue
		}
		if _, ok := originals[f]; !ok {
			originals[f] = strings.TrimSpace(w)
			order = append(order, f)
		}
	}
	sort.Strings(order)

	consumed := make(map[string]bool, len(order))
	var out []string

	// Irregular pairs resolve first, by exact lookup.
	for _, pair := range irregularPairs[lang] {
		a, b := pair[0], pair[1]
		if _, okA := originals[a]; !okA {
			continue
		}
		if _, okB := originals[b]; !okB {
			continue
		}
		if consumed[a] || consumed[b] {
			continue
		}
		out = append(out, originals[a]+vocab.CombinedSeparator+originals[b])
		consumed[a] = true
		consumed[b] = true
	}

	for _, w := range order {
		if consumed[w] {
			continue
		}
		partner := ""
		for _, p := range suffixPairs[lang] {
			if s, ok := strings.CutSuffix(w, p.a); ok {
				if cand := s + p.b; cand != w && originals[cand] != "" && !consumed[cand] {
					partner = cand
					break
				}
			}
			if s, ok := strings.CutSuffix(w, p.b); ok {
				if cand := s + p.a; cand != w && originals[cand] != "" && !consumed[cand] {
					// Emit the A-form first regardless of scan order.
					partner = w
					w = cand
					break
				}
			}
		}
		if partner != "" {
			out = append(out, originals[w]+vocab.CombinedSeparator+originals[partner])
			consumed[w] = true
			consumed[partner] = true
			continue
		}
		out = append(out, originals[w])
		consumed[w] = true
	}

	sort.Slice(out, func(i, j int) bool { return vocab.Fold(out[i]) < vocab.Fold(out[j]) })
	return out
}

// CombineBundle applies Combine to the adjective category of b, leaving the
// other categories untouched.
func CombineBundle(b vocab.Bundle, lang vocab.Language) vocab.Bundle {
	out := b.Clone()
	out[vocab.Adjectives] = Combine(out[vocab.Adjectives], lang)
	return out
}
