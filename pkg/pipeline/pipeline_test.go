package pipeline

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/anki"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/audio"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/config"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Lectura</title></head><body>
<article>
<p>El perro grande duerme en la casa. La montaña se ve desde la ventana.
El perro corre por el jardín cada mañana con mucha alegría.</p>
<p>La casa tiene una puerta roja y una ventana pequeña. El jardín
está lleno de flores durante la primavera.</p>
</article>
</body></html>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Decks:   config.DecksConfig{Dir: filepath.Join(root, "decks"), Language: "spanish"},
		Audio:   config.AudioConfig{Enabled: false, Dir: filepath.Join(root, "audio"), Workers: 2},
		Extract: config.ExtractConfig{MinWordLength: 3},
		Export:  config.ExportConfig{Dir: filepath.Join(root, "exports")},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func articleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, articleHTML)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunBuildsDeckAndCSV(t *testing.T) {
	srv := articleServer(t)
	cfg := testConfig(t)
	p := New(cfg, testLogger())

	var stages []string
	p.OnProgress = func(stage string) { stages = append(stages, stage) }

	res, err := p.Run(context.Background(), Request{
		Source:   srv.URL + "/lectura",
		DeckName: "lectura",
	})
	require.NoError(t, err)

	assert.Greater(t, res.NewWords.Total(), 0)
	assert.Contains(t, res.NewWords[vocab.Nouns], "perro")
	assert.Contains(t, res.NewWords[vocab.Nouns], "casa")

	require.NotEmpty(t, res.DeckPath)
	assert.FileExists(t, res.DeckPath)

	// The stored deck round-trips through the codec.
	decoded, err := anki.Decode(res.DeckPath)
	require.NoError(t, err)
	assert.Contains(t, decoded[vocab.Nouns], "perro")

	require.Len(t, res.CSVPaths, 1)
	assert.FileExists(t, res.CSVPaths[0])

	assert.Contains(t, stages, "building deck")
	assert.Contains(t, stages, "done")
}

func TestRunSkipsDeckWhenNothingNew(t *testing.T) {
	srv := articleServer(t)
	cfg := testConfig(t)
	p := New(cfg, testLogger())

	// First run learns everything the article offers.
	first, err := p.Run(context.Background(), Request{Source: srv.URL, DeckName: "lectura"})
	require.NoError(t, err)
	require.NotEmpty(t, first.DeckPath)

	// Second run over the same text finds nothing new.
	second, err := p.Run(context.Background(), Request{Source: srv.URL, DeckName: "lectura"})
	require.NoError(t, err)
	assert.Zero(t, second.NewWords.Total())
	assert.Greater(t, second.ExistingWords.Total(), 0)
	assert.Empty(t, second.DeckPath)
	assert.Empty(t, second.CSVPaths)
}

type stubGenerator struct{ dir string }

func (g stubGenerator) Generate(word, fileName string) (string, error) {
	path := filepath.Join(g.dir, fileName+".mp3")
	if err := os.WriteFile(path, []byte("ID3 stub"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func TestRunAttachesAudio(t *testing.T) {
	srv := articleServer(t)
	cfg := testConfig(t)
	cfg.Audio.Enabled = true
	p := New(cfg, testLogger())
	p.newGenerator = func(dir string, lang vocab.Language) audio.Generator {
		return stubGenerator{dir: dir}
	}

	res, err := p.Run(context.Background(), Request{Source: srv.URL, DeckName: "lectura"})
	require.NoError(t, err)
	require.NotEmpty(t, res.DeckPath)
	assert.Empty(t, res.AudioFailed)
}

func TestDeckBase(t *testing.T) {
	assert.Equal(t, "lesson", deckBase("/tmp/books/lesson.pdf"))
	assert.Equal(t, "articulo", deckBase("https://example.com/articulo?utm=1"))
	assert.Equal(t, "deck", deckBase(""))
}
