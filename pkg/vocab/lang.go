package vocab

import "strings"

// Language identifies a supported study language.
type Language string

const (
	Spanish  Language = "Spanish"
	French   Language = "French"
	German   Language = "German"
	Italian  Language = "Italian"
	Japanese Language = "Japanese"
	Chinese  Language = "Chinese"
	Russian  Language = "Russian"
	English  Language = "English"
)

// DefaultLanguage is assumed when nothing else identifies a deck's language.
const DefaultLanguage = Spanish

var langCodes = map[Language]string{
	Spanish:  "es",
	French:   "fr",
	German:   "de",
	Italian:  "it",
	Japanese: "ja",
	Chinese:  "zh",
	Russian:  "ru",
	English:  "en",
}

// Languages returns all supported languages.
func Languages() []Language {
	return []Language{Spanish, French, German, Italian, Japanese, Chinese, Russian, English}
}

// Code returns the ISO 639-1 code for the language, defaulting to "en".
func (l Language) Code() string {
	if c, ok := langCodes[l]; ok {
		return c
	}
	return "en"
}

// ParseLanguage resolves a language from its name or ISO code,
// case-insensitively. Unrecognized input yields DefaultLanguage and false.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for l, code := range langCodes {
		if strings.EqualFold(s, string(l)) || strings.EqualFold(s, code) {
			return l, true
		}
	}
	return DefaultLanguage, false
}

// filenameKeywords maps each language to the lowercase substrings that mark
// a deck filename as belonging to it.
var filenameKeywords = map[Language][]string{
	Spanish:  {"spanish", "español", "espanol", "_es_", "_es."},
	French:   {"french", "français", "francais", "_fr_", "_fr."},
	German:   {"german", "deutsch", "_de_", "_de."},
	Italian:  {"italian", "italiano", "_it_", "_it."},
	Japanese: {"japanese", "日本語", "_ja_", "_ja."},
	Chinese:  {"chinese", "中文", "_zh_", "_zh."},
	Russian:  {"russian", "русский", "_ru_", "_ru."},
	English:  {"english", "_en_", "_en."},
}

// LanguageFromFilename infers a deck's language from its filename using the
// fixed keyword table. Unmatched names default to DefaultLanguage.
func LanguageFromFilename(name string) Language {
	lower := strings.ToLower(name)
	for _, l := range Languages() {
		for _, kw := range filenameKeywords[l] {
			if strings.Contains(lower, kw) {
				return l
			}
		}
	}
	return DefaultLanguage
}

// MentionsLanguage reports whether name already carries any keyword for l,
// used to avoid double-qualifying stored deck names.
func MentionsLanguage(name string, l Language) bool {
	lower := strings.ToLower(name)
	for _, kw := range filenameKeywords[l] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return strings.Contains(lower, strings.ToLower(string(l)))
}
