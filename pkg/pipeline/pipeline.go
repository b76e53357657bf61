// Package pipeline wires extraction, reconciliation, synthesis and
// export into the end-to-end deck build.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/anki"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/audio"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/config"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/export"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/extract"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/morph"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/reconcile"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/storage"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/translate"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Request describes one processing run.
type Request struct {
	// Source is a PDF path or an http(s) article URL.
	Source string
	// StartPage and EndPage bound PDF extraction (1-indexed inclusive;
	// zero means the whole document).
	StartPage int
	EndPage   int
	// DeckName overrides the base name derived from the source.
	DeckName string
	Language vocab.Language
	// ExtraDecks are additional .apkg paths (possibly in selector form,
	// "Name (path)") whose words count as known.
	ExtraDecks []string
}

// Result reports what a run produced.
type Result struct {
	NewWords      vocab.Bundle
	ExistingWords vocab.Bundle
	DeckPath      string
	CSVPaths      []string
	AudioFailed   []string
}

// Progress receives stage announcements as the run advances.
type Progress func(stage string)

// Pipeline holds the collaborators of a run. Build one with New and
// reuse it across runs.
type Pipeline struct {
	Cfg        *config.Config
	Store      *storage.Store
	Translator *translate.Client
	Log        *slog.Logger
	OnProgress Progress

	// newGenerator is swappable for tests.
	newGenerator func(dir string, lang vocab.Language) audio.Generator
	now          func() time.Time
}

// New assembles a pipeline from configuration.
func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	tr := translate.New(cfg.Translate.APIKey)
	if cfg.Translate.Endpoint != "" {
		tr.Endpoint = cfg.Translate.Endpoint
	}
	tr.Log = log
	store := storage.New(cfg.Decks.Dir)
	store.Log = log
	return &Pipeline{
		Cfg:          cfg,
		Store:        store,
		Translator:   tr,
		Log:          log,
		newGenerator: audio.NewGoogleTTS,
		now:          time.Now,
	}
}

func (p *Pipeline) progress(stage string) {
	if p.OnProgress != nil {
		p.OnProgress(stage)
	}
	p.Log.Info(stage)
}

// Run executes the full pipeline: extract, reconcile, synthesize,
// package, store, export. A run with no new words stores nothing and
// returns a result whose DeckPath is empty.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	lang := req.Language
	if lang == "" {
		lang = p.Cfg.Language()
	}

	p.progress("extracting text")
	text, err := p.sourceText(ctx, req)
	if err != nil {
		return nil, err
	}

	p.progress("extracting words")
	extractor, err := extract.New(lang)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	fresh := extractor.Words(text, extract.Options{
		MinLength: p.Cfg.Extract.MinWordLength,
		Include:   p.Cfg.Include(),
	})
	fresh = morph.CombineBundle(fresh, lang)

	p.progress("reconciling against stored decks")
	engine := reconcile.New(p.Store)
	engine.Log = p.Log
	newWords, existing := engine.Reconcile(fresh, lang, req.ExtraDecks)

	res := &Result{NewWords: newWords, ExistingWords: existing}
	if newWords.Total() == 0 {
		p.progress("no new words, nothing to build")
		return res, nil
	}

	var audioFiles map[string]string
	if p.Cfg.Audio.Enabled {
		p.progress("synthesizing audio")
		audioFiles, res.AudioFailed = p.synthesize(ctx, newWords, lang)
	}

	p.progress("translating")
	glosses := p.Translator.Bundle(ctx, newWords, lang)
	sentences := extract.ExampleSentences(newWords, text)
	p.translateSentences(ctx, glosses, sentences, lang)

	base := req.DeckName
	if base == "" {
		base = deckBase(req.Source)
	}

	p.progress("building deck")
	deckPath, err := p.buildDeck(newWords, audioFiles, base, lang)
	if err != nil {
		return nil, err
	}
	res.DeckPath = deckPath

	p.progress("exporting CSV")
	res.CSVPaths, err = p.exportCSV(base, lang, newWords, sentences, glosses)
	if err != nil {
		return nil, err
	}

	p.progress("done")
	return res, nil
}

func (p *Pipeline) sourceText(ctx context.Context, req Request) (string, error) {
	if strings.HasPrefix(req.Source, "http://") || strings.HasPrefix(req.Source, "https://") {
		article, err := extract.FetchArticle(ctx, req.Source)
		if err != nil {
			return "", err
		}
		return article.Text, nil
	}
	return extract.ExtractPDFText(req.Source, req.StartPage, req.EndPage)
}

func (p *Pipeline) synthesize(ctx context.Context, words vocab.Bundle, lang vocab.Language) (map[string]string, []string) {
	if err := os.MkdirAll(p.Cfg.Audio.Dir, 0o755); err != nil {
		p.Log.Warn("create audio dir", "dir", p.Cfg.Audio.Dir, "error", err)
		return nil, nil
	}
	s := &audio.Synthesizer{
		Gen:     p.newGenerator(p.Cfg.Audio.Dir, lang),
		Workers: p.Cfg.Audio.Workers,
		Log:     p.Log,
	}
	out := s.Bundle(ctx, words)
	return out.Files, out.Failed
}

func (p *Pipeline) translateSentences(ctx context.Context, glosses map[string]string, sentences map[string]string, lang vocab.Language) {
	var texts []string
	seen := make(map[string]bool)
	for _, s := range sentences {
		if !seen[s] {
			seen[s] = true
			texts = append(texts, s)
		}
	}
	if len(texts) == 0 {
		return
	}
	translated := p.Translator.Texts(ctx, texts, lang)
	for i, s := range texts {
		glosses[s] = translated[i]
	}
}

func (p *Pipeline) buildDeck(words vocab.Bundle, audioFiles map[string]string, base string, lang vocab.Language) (string, error) {
	tmp, err := os.MkdirTemp("", "llamalang-deck-*")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	archive := filepath.Join(tmp, base+storage.ArchiveExt)
	if err := anki.Encode(words, audioFiles, storage.ParseDeckName(base).DisplayName(), lang, archive); err != nil {
		return "", fmt.Errorf("encode deck: %w", err)
	}
	return p.Store.Save(archive, base+storage.ArchiveExt, lang)
}

func (p *Pipeline) exportCSV(base string, lang vocab.Language, words vocab.Bundle, sentences, glosses map[string]string) ([]string, error) {
	sheets := []*export.Sheet{export.NewSheet(base, lang, words, sentences, glosses)}
	if p.Cfg.Export.PerCategory {
		sheets = append(sheets, export.CategorySheets(base, lang, words, sentences, glosses)...)
	}
	var paths []string
	for _, sheet := range sheets {
		path, err := sheet.WriteFile(p.Cfg.Export.Dir, p.now())
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// deckBase derives a deck base name from a source path or URL.
func deckBase(source string) string {
	base := filepath.Base(strings.TrimSuffix(source, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "deck"
	}
	return base
}
