package extract

import (
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/morph"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Classifier assigns a grammatical category to a single word.
type Classifier interface {
	Classify(word string) vocab.Category
}

// NewClassifier returns the classifier for a language: morphological
// analysis for Japanese, suffix heuristics everywhere else.
func NewClassifier(lang vocab.Language) (Classifier, error) {
	if lang == vocab.Japanese {
		return newJapaneseClassifier()
	}
	return suffixClassifier{lang: lang}, nil
}

type suffixClassifier struct {
	lang vocab.Language
}

func (c suffixClassifier) Classify(word string) vocab.Category {
	return morph.Classify(word, c.lang)
}

// japaneseClassifier tokenizes with the IPA dictionary and maps the
// primary part-of-speech feature to a category.
type japaneseClassifier struct {
	t *tokenizer.Tokenizer
}

func newJapaneseClassifier() (*japaneseClassifier, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &japaneseClassifier{t: t}, nil
}

func (c *japaneseClassifier) Classify(word string) vocab.Category {
	for _, tk := range c.t.Tokenize(word) {
		if tk.Class == tokenizer.DUMMY {
			continue
		}
		return categoryFromFeatures(tk.Features())
	}
	return vocab.Other
}

// IPA feature layout: index 0 is the part of speech, 1 the first sub-POS,
// 6 the base form.
func categoryFromFeatures(features []string) vocab.Category {
	if len(features) == 0 {
		return vocab.Other
	}
	switch features[0] {
	case "名詞":
		if len(features) > 1 {
			switch features[1] {
			case "固有名詞":
				return vocab.ProperNouns
			case "数":
				return vocab.Numbers
			case "代名詞":
				return vocab.Pronouns
			}
		}
		return vocab.Nouns
	case "動詞":
		return vocab.Verbs
	case "形容詞", "形容動詞":
		return vocab.Adjectives
	case "副詞":
		return vocab.Adverbs
	default:
		return vocab.Other
	}
}

// skippedJapanesePOS are token classes that never yield vocabulary:
// punctuation, particles and auxiliary verbs.
var skippedJapanesePOS = map[string]bool{
	"記号":   true,
	"助詞":   true,
	"助動詞":  true,
	"接続詞":  true,
	"フィラー": true,
}
