// Package audio synthesizes pronunciation clips for vocabulary words.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	htgotts "github.com/hegedustibor/htgo-tts"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Generator produces a speech file for a word and returns its path.
type Generator interface {
	Generate(word, fileName string) (string, error)
}

// NewGoogleTTS returns a Generator backed by the Google translate TTS
// endpoint, writing MP3 files under dir.
func NewGoogleTTS(dir string, lang vocab.Language) Generator {
	return &googleTTS{speech: htgotts.Speech{
		Folder:   dir,
		Language: lang.Code(),
	}}
}

type googleTTS struct {
	speech htgotts.Speech
}

func (g *googleTTS) Generate(word, fileName string) (string, error) {
	// A combined form is spoken as both words in sequence.
	spoken := strings.ReplaceAll(word, vocab.CombinedSeparator, ", ")
	path, err := g.speech.CreateSpeechFile(spoken, fileName)
	if err != nil {
		return "", fmt.Errorf("synthesize %q: %w", word, err)
	}
	return path, nil
}

// Synthesizer fans a bundle's words out over a worker pool. Synthesis
// is best-effort: words that fail are reported, not fatal.
type Synthesizer struct {
	Gen     Generator
	Workers int
	Log     *slog.Logger
}

// Result maps each word to its audio file path. Failed lists words
// whose synthesis did not produce a file.
type Result struct {
	Files  map[string]string
	Failed []string
}

// Bundle synthesizes every word in b. Cancelling ctx stops scheduling;
// words not yet processed are counted as failed.
func (s *Synthesizer) Bundle(ctx context.Context, b vocab.Bundle) Result {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	res := Result{Files: make(map[string]string)}
	var mu sync.Mutex

	pool := NewPool(s.Workers, 0)
	pool.Start(ctx)
submit:
	for _, cat := range b.Keys() {
		for _, word := range b[cat] {
			word := word
			err := pool.Submit(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				path, err := s.Gen.Generate(word, FileName(word))
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					log.Warn("audio synthesis failed", "word", word, "error", err)
					res.Failed = append(res.Failed, word)
					return err
				}
				res.Files[word] = path
				return nil
			})
			if err != nil {
				// Cancelled mid-run; the sweep below reports the rest.
				break submit
			}
		}
	}
	pool.Close()

	// Anything neither synthesized nor failed was dropped by
	// cancellation.
	mu.Lock()
	defer mu.Unlock()
	failed := make(map[string]bool, len(res.Failed))
	for _, w := range res.Failed {
		failed[w] = true
	}
	for _, cat := range b.Keys() {
		for _, word := range b[cat] {
			if _, ok := res.Files[word]; !ok && !failed[word] {
				res.Failed = append(res.Failed, word)
			}
		}
	}
	sort.Strings(res.Failed)
	return res
}

// FileName returns a filesystem-safe base name for a word's clip.
func FileName(word string) string {
	r := strings.NewReplacer(
		vocab.CombinedSeparator, "_",
		" ", "_",
		".", "",
	)
	return r.Replace(word)
}
