package storage

import (
	"testing"
	"time"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
	"github.com/stretchr/testify/assert"
)

func TestParseDeckName(t *testing.T) {
	dn := ParseDeckName("my_spanish_words_20240315_093000.apkg")
	assert.Equal(t, "my_spanish_words", dn.Base)
	assert.Equal(t, "20240315_093000", dn.RawTimestamp)
	assert.Equal(t, 2024, dn.Timestamp.Year())
	assert.Equal(t, time.March, dn.Timestamp.Month())
	assert.Equal(t, vocab.Spanish, dn.Language)
	assert.Equal(t, "My Spanish Words", dn.DisplayName())
}

func TestParseDeckNameNoTimestamp(t *testing.T) {
	dn := ParseDeckName("lesson-three.apkg")
	assert.Equal(t, "lesson-three", dn.Base)
	assert.Equal(t, "00000000_000000", dn.RawTimestamp)
	assert.True(t, dn.Timestamp.IsZero())
	assert.Equal(t, vocab.DefaultLanguage, dn.Language)
	assert.Equal(t, "Lesson Three", dn.DisplayName())
}

func TestParseDeckNameSkipsInvalidTimestampToken(t *testing.T) {
	// Looks like a timestamp but is not a valid date.
	dn := ParseDeckName("deck_99999999_999999.apkg")
	assert.Equal(t, "00000000_000000", dn.RawTimestamp)
}

func TestBuildStoredName(t *testing.T) {
	at := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)

	got := BuildStoredName("lesson", vocab.Spanish, at, ".apkg")
	assert.Equal(t, "lesson_Spanish_20240315_093000.apkg", got)

	// Base already mentions the language: no second qualifier.
	got = BuildStoredName("spanish_lesson", vocab.Spanish, at, ".apkg")
	assert.Equal(t, "spanish_lesson_20240315_093000.apkg", got)

	// Missing extension defaults to the archive extension.
	got = BuildStoredName("lesson", vocab.French, at, "")
	assert.Equal(t, "lesson_French_20240315_093000.apkg", got)
}

func TestBuildStoredNameRoundTripsThroughParse(t *testing.T) {
	at := time.Date(2025, 12, 1, 23, 59, 59, 0, time.Local)
	name := BuildStoredName("verbs", vocab.Italian, at, ".apkg")
	dn := ParseDeckName(name)
	assert.Equal(t, at.Format(TimestampLayout), dn.RawTimestamp)
	assert.Equal(t, vocab.Italian, dn.Language)
	assert.True(t, at.Equal(dn.Timestamp))
}
