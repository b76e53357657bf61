package reconcile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/anki"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKnown is an in-memory KnownSource.
type fakeKnown struct {
	words map[string]struct{}
	err   error
}

func (f fakeKnown) KnownWords(vocab.Language) (map[string]struct{}, error) {
	return f.words, f.err
}

func knownOf(words ...string) fakeKnown {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return fakeKnown{words: set}
}

func TestReconcileEmptyStore(t *testing.T) {
	e := New(knownOf())
	fresh := vocab.Bundle{vocab.Nouns: {"Casa", "casa", "Mesa"}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	// Second "casa" is a case-folded duplicate: dropped from both outputs.
	assert.Equal(t, []string{"Casa", "Mesa"}, newB[vocab.Nouns])
	assert.Equal(t, []string{}, existing[vocab.Nouns])
}

func TestReconcileAgainstStoredWords(t *testing.T) {
	e := New(knownOf("casa"))
	fresh := vocab.Bundle{vocab.Nouns: {"Casa", "Mesa"}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	assert.Equal(t, []string{"Mesa"}, newB[vocab.Nouns])
	assert.Equal(t, []string{"Casa"}, existing[vocab.Nouns])
}

func TestReconcileCombinedFormEitherSide(t *testing.T) {
	e := New(knownOf("bueno"))
	fresh := vocab.Bundle{vocab.Adjectives: {"bueno/buena", "rojo/roja"}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	assert.Equal(t, []string{"bueno/buena"}, existing[vocab.Adjectives])
	assert.Equal(t, []string{"rojo/roja"}, newB[vocab.Adjectives])
}

func TestReconcileCrossCategoryDuplicateDropped(t *testing.T) {
	e := New(knownOf())
	fresh := vocab.Bundle{
		vocab.Nouns: {"banco"},
		vocab.Verbs: {"Banco", "nadar"},
	}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	assert.Equal(t, []string{"banco"}, newB[vocab.Nouns])
	assert.Equal(t, []string{"nadar"}, newB[vocab.Verbs])
	assert.Equal(t, []string{}, existing[vocab.Verbs])
}

func TestReconcileKeySetMatchesInput(t *testing.T) {
	e := New(knownOf())
	fresh := vocab.Bundle{vocab.Nouns: {"sol"}, vocab.Adverbs: {}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	for _, out := range []vocab.Bundle{newB, existing} {
		require.Len(t, out, 2)
		assert.Contains(t, out, vocab.Nouns)
		assert.Contains(t, out, vocab.Adverbs)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	e := New(knownOf("casa", "bueno"))
	fresh := vocab.Bundle{
		vocab.Nouns:      {"Casa", "Mesa", "sol"},
		vocab.Adjectives: {"bueno/buena", "rojo"},
	}

	new1, exist1 := e.Reconcile(fresh, vocab.Spanish, nil)
	new2, exist2 := e.Reconcile(fresh, vocab.Spanish, nil)
	assert.Equal(t, new1, new2)
	assert.Equal(t, exist1, exist2)
}

func TestReconcilePartitionComplete(t *testing.T) {
	e := New(knownOf("mesa"))
	fresh := vocab.Bundle{vocab.Nouns: {"casa", "mesa", "sol"}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	for _, w := range fresh[vocab.Nouns] {
		inNew := contains(newB[vocab.Nouns], w)
		inExisting := contains(existing[vocab.Nouns], w)
		assert.True(t, inNew != inExisting, "word %q must be in exactly one output", w)
	}
}

func TestReconcileExtraSources(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "uploaded_spanish_20240101_000000.apkg")
	bundle := vocab.NewBundle()
	bundle.Add(vocab.Nouns, "mesa")
	require.NoError(t, anki.Encode(bundle, nil, "Uploaded", vocab.Spanish, extra))

	e := New(knownOf())
	fresh := vocab.Bundle{vocab.Nouns: {"casa", "mesa"}}

	// Decorated selector string unwraps to the actual path.
	newB, existing := e.Reconcile(fresh, vocab.Spanish, []string{"Uploaded Deck (" + extra + ")"})
	assert.Equal(t, []string{"casa"}, newB[vocab.Nouns])
	assert.Equal(t, []string{"mesa"}, existing[vocab.Nouns])
}

func TestReconcileSkipsUnreadableExtraSource(t *testing.T) {
	e := New(knownOf("casa"))
	fresh := vocab.Bundle{vocab.Nouns: {"casa", "sol"}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, []string{"/no/such/deck.apkg"})
	assert.Equal(t, []string{"sol"}, newB[vocab.Nouns])
	assert.Equal(t, []string{"casa"}, existing[vocab.Nouns])
}

func TestReconcileToleratesKnownSourceFailure(t *testing.T) {
	e := New(fakeKnown{err: errors.New("disk on fire")})
	fresh := vocab.Bundle{vocab.Nouns: {"casa"}}

	newB, existing := e.Reconcile(fresh, vocab.Spanish, nil)
	assert.Equal(t, []string{"casa"}, newB[vocab.Nouns])
	assert.Equal(t, []string{}, existing[vocab.Nouns])
}

func TestUnwrapSelector(t *testing.T) {
	assert.Equal(t, "/tmp/deck.apkg", UnwrapSelector("My Deck (/tmp/deck.apkg)"))
	assert.Equal(t, "/tmp/deck.apkg", UnwrapSelector("/tmp/deck.apkg"))
	assert.Equal(t, "/tmp/with space/deck.apkg", UnwrapSelector("Deck (/tmp/with space/deck.apkg)"))
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
