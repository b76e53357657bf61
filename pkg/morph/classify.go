package morph

import (
	"strings"
	"unicode"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

var verbSuffixes = map[vocab.Language][]string{
	vocab.Spanish: {"ar", "er", "ir", "arse", "erse", "irse"},
	vocab.Italian: {"are", "ere", "ire"},
	vocab.French:  {"er", "ir", "re"},
}

var adverbSuffixes = map[vocab.Language][]string{
	vocab.Spanish: {"mente"},
	vocab.Italian: {"mente"},
	vocab.French:  {"ment"},
}

// Classify assigns a grammatical category to a bare word using the
// language's suffix tables. It is the fallback used when no structured
// part-of-speech metadata is available, and it is deterministic: the same
// word always lands in the same category.
func Classify(word string, lang vocab.Language) vocab.Category {
	word = strings.TrimSpace(word)
	if word == "" {
		return vocab.Other
	}
	if isNumeric(word) {
		return vocab.Numbers
	}
	// Combined forms only arise from adjective pairing.
	if vocab.IsCombined(word) {
		return vocab.Adjectives
	}
	folded := vocab.Fold(word)
	for _, s := range adverbSuffixes[lang] {
		if strings.HasSuffix(folded, s) && len(folded) > len(s)+2 {
			return vocab.Adverbs
		}
	}
	for _, s := range verbSuffixes[lang] {
		if strings.HasSuffix(folded, s) && len(folded) > len(s)+2 {
			return vocab.Verbs
		}
	}
	if r := []rune(word)[0]; unicode.IsUpper(r) {
		return vocab.ProperNouns
	}
	return vocab.Nouns
}

func isNumeric(w string) bool {
	hasDigit := false
	for _, r := range w {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '.' || r == ',' || r == '-':
		default:
			return false
		}
	}
	return hasDigit
}
