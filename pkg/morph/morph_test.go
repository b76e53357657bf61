package morph

import (
	"testing"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinePairsGenderedForms(t *testing.T) {
	got := Combine([]string{"bueno", "buena", "casa"}, vocab.Spanish)
	assert.Equal(t, []string{"bueno/buena", "casa"}, got)
}

func TestCombinePluralBeforeSingular(t *testing.T) {
	got := Combine([]string{"buenos", "buenas"}, vocab.Spanish)
	assert.Equal(t, []string{"buenos/buenas"}, got)
}

func TestCombineEmitsMasculineFirst(t *testing.T) {
	// Sorted scan sees "pequeña" before "pequeño"; output order must not
	// depend on that.
	got := Combine([]string{"pequeña", "pequeño"}, vocab.Spanish)
	assert.Equal(t, []string{"pequeño/pequeña"}, got)
}

func TestCombineIrregularPairs(t *testing.T) {
	got := Combine([]string{"alemana", "alemán", "casa"}, vocab.Spanish)
	assert.Equal(t, []string{"alemán/alemana", "casa"}, got)
}

func TestCombineUnsupportedLanguagePassesThroughSorted(t *testing.T) {
	got := Combine([]string{"neko", "inu"}, vocab.Japanese)
	assert.Equal(t, []string{"inu", "neko"}, got)
}

func TestCombineCaseInsensitive(t *testing.T) {
	got := Combine([]string{"Bueno", "buena"}, vocab.Spanish)
	require.Len(t, got, 1)
	assert.Equal(t, "Bueno/buena", got[0])
}

func TestCombineNoDoubleConsumption(t *testing.T) {
	// "malo" can pair with "mala" only once even though "malas"/"malos"
	// are also present and pair among themselves.
	got := Combine([]string{"malo", "mala", "malos", "malas"}, vocab.Spanish)
	assert.Equal(t, []string{"malo/mala", "malos/malas"}, got)
}

func TestCombineIdempotent(t *testing.T) {
	in := []string{"bueno", "buena", "rojo", "roja", "casa", "alemán", "alemana"}
	first := Combine(in, vocab.Spanish)

	// Expand combined forms back into atoms and re-run.
	var expanded []string
	for _, w := range first {
		expanded = append(expanded, vocab.SplitCombined(w)...)
	}
	second := Combine(expanded, vocab.Spanish)
	assert.Equal(t, first, second)
}

func TestCombineBundleOnlyTouchesAdjectives(t *testing.T) {
	b := vocab.NewBundle()
	b[vocab.Adjectives] = []string{"bueno", "buena"}
	b[vocab.Nouns] = []string{"perro", "perra"}

	out := CombineBundle(b, vocab.Spanish)
	assert.Equal(t, []string{"bueno/buena"}, out[vocab.Adjectives])
	assert.Equal(t, []string{"perro", "perra"}, out[vocab.Nouns])
}
