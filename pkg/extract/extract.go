// Package extract turns raw text from PDFs and articles into
// categorized vocabulary bundles.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// DefaultMinLength is the minimum word length in runes.
const DefaultMinLength = 3

// Options controls which words survive extraction.
type Options struct {
	// MinLength in runes; DefaultMinLength when zero.
	MinLength int
	// Include restricts output to these categories. Nil means the
	// default study set: nouns, verbs, adjectives and adverbs.
	Include map[vocab.Category]bool
	// Known words (folded) are dropped before classification.
	Known map[string]struct{}
}

func (o Options) minLength() int {
	if o.MinLength > 0 {
		return o.MinLength
	}
	return DefaultMinLength
}

func (o Options) included(c vocab.Category) bool {
	if o.Include != nil {
		return o.Include[c]
	}
	switch c {
	case vocab.Nouns, vocab.Verbs, vocab.Adjectives, vocab.Adverbs:
		return true
	}
	return false
}

// Extractor tokenizes and classifies text for one language.
type Extractor struct {
	lang       vocab.Language
	classifier Classifier
}

// New builds an extractor for lang. Japanese loads the IPA dictionary,
// which is the only constructor that can fail.
func New(lang vocab.Language) (*Extractor, error) {
	c, err := NewClassifier(lang)
	if err != nil {
		return nil, err
	}
	return &Extractor{lang: lang, classifier: c}, nil
}

// Words extracts the vocabulary bundle from text. Output is sorted per
// category and unique across categories.
func (x *Extractor) Words(text string, opts Options) vocab.Bundle {
	bundle := vocab.NewBundle()
	if jc, ok := x.classifier.(*japaneseClassifier); ok {
		x.japaneseWords(jc, text, opts, bundle)
	} else {
		x.latinWords(text, opts, bundle)
	}
	bundle.Sort()
	return bundle
}

func (x *Extractor) latinWords(text string, opts Options, bundle vocab.Bundle) {
	tokens := splitTokens(text)

	// A capitalized token whose lowercase form also appears in the text
	// is sentence-initial casing, not a proper noun.
	lowerSeen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if r, _ := utf8.DecodeRuneInString(tok); !unicode.IsUpper(r) {
			lowerSeen[vocab.Fold(tok)] = struct{}{}
		}
	}

	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < opts.minLength() {
			continue
		}
		word := tok
		if r, _ := utf8.DecodeRuneInString(tok); unicode.IsUpper(r) {
			if _, ok := lowerSeen[vocab.Fold(tok)]; ok {
				word = vocab.Fold(tok)
			}
		}
		if _, known := opts.Known[vocab.Fold(word)]; known {
			continue
		}
		cat := x.classifier.Classify(word)
		if !opts.included(cat) {
			continue
		}
		if cat != vocab.ProperNouns {
			word = vocab.Fold(word)
		}
		bundle.Add(cat, word)
	}
}

func (x *Extractor) japaneseWords(jc *japaneseClassifier, text string, opts Options, bundle vocab.Bundle) {
	for _, tk := range jc.t.Tokenize(text) {
		if tk.Class == tokenizer.DUMMY {
			continue
		}
		features := tk.Features()
		if len(features) == 0 || skippedJapanesePOS[features[0]] {
			continue
		}
		word := tk.Surface
		if len(features) > 6 && features[6] != "*" && features[6] != "" {
			word = features[6]
		}
		if utf8.RuneCountInString(word) < opts.minLength() {
			continue
		}
		if _, known := opts.Known[vocab.Fold(word)]; known {
			continue
		}
		cat := categoryFromFeatures(features)
		if !opts.included(cat) {
			continue
		}
		bundle.Add(cat, word)
	}
}

// splitTokens breaks text into candidate words. Hyphens and apostrophes
// inside a word are kept, everything else separates.
func splitTokens(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-' && r != '\''
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-'")
		if f == "" {
			continue
		}
		if hasLetter(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var reSentenceEnd = regexp.MustCompile(`[.!?;。！？\n]+`)

// Sentences splits text into trimmed sentences, dropping empties.
func Sentences(text string) []string {
	parts := reSentenceEnd.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExampleSentences returns the first sentence containing each word in
// the bundle. Words with no matching sentence are absent from the map.
func ExampleSentences(bundle vocab.Bundle, text string) map[string]string {
	sentences := Sentences(text)
	out := make(map[string]string)
	for _, cat := range bundle.Keys() {
		for _, word := range bundle[cat] {
			for _, form := range vocab.SplitCombined(word) {
				if s, ok := findSentence(sentences, form); ok {
					out[word] = s
					break
				}
			}
		}
	}
	return out
}

func findSentence(sentences []string, word string) (string, bool) {
	folded := vocab.Fold(word)
	// CJK text has no word separators, a substring match is the best
	// boundary available.
	substring := isCJK(word)
	for _, s := range sentences {
		fs := vocab.Fold(s)
		if substring && strings.Contains(fs, folded) {
			return s, true
		}
		if !substring && containsWord(fs, folded) {
			return s, true
		}
	}
	return "", false
}

func isCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s on letter boundaries.
func containsWord(s, word string) bool {
	for i := 0; i+len(word) <= len(s); {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(word)
		if boundaryAt(s, start, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		i = start + size
	}
	return false
}

func boundaryAt(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
