// Package translate resolves English glosses and example-sentence
// translations for extracted vocabulary.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// DefaultEndpoint is the translation API base URL.
const DefaultEndpoint = "https://api-free.deepl.com/v2/translate"

// Client calls a DeepL-compatible translation endpoint. A client with
// an empty APIKey is still usable; every lookup returns empty strings
// so exports degrade to untranslated columns.
type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
	Log      *slog.Logger
}

// New returns a client with sane defaults. apiKey may be empty.
func New(apiKey string) *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) log() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

type request struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

type response struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Texts translates texts from lang into English. The returned slice
// always has len(texts) entries; an entry is empty when no translation
// was available. Failures are logged, never fatal.
func (c *Client) Texts(ctx context.Context, texts []string, lang vocab.Language) []string {
	out := make([]string, len(texts))
	if len(texts) == 0 || c.APIKey == "" {
		return out
	}

	body, err := json.Marshal(request{
		Text:       texts,
		SourceLang: lang.Code(),
		TargetLang: "en",
	})
	if err != nil {
		c.log().Warn("translation request encoding failed", "error", err)
		return out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		c.log().Warn("translation request failed", "error", err)
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log().Warn("translation request failed", "error", err)
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log().Warn("translation request rejected", "status", resp.StatusCode)
		return out
	}

	var decoded response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		c.log().Warn("translation response decoding failed", "error", err)
		return out
	}
	for i, tr := range decoded.Translations {
		if i >= len(out) {
			break
		}
		out[i] = tr.Text
	}
	return out
}

// Word translates a single word. Combined forms translate their first
// half; gendered pairs share one gloss.
func (c *Client) Word(ctx context.Context, word string, lang vocab.Language) string {
	word = vocab.SplitCombined(word)[0]
	got := c.Texts(ctx, []string{word}, lang)
	return got[0]
}

// Bundle translates every word in b, batching one API call per
// category. The result maps each original word to its gloss.
func (c *Client) Bundle(ctx context.Context, b vocab.Bundle, lang vocab.Language) map[string]string {
	out := make(map[string]string)
	for _, cat := range b.Keys() {
		words := b[cat]
		if len(words) == 0 {
			continue
		}
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = vocab.SplitCombined(w)[0]
		}
		glosses := c.Texts(ctx, texts, lang)
		for i, w := range words {
			out[w] = glosses[i]
		}
	}
	return out
}
