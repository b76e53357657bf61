package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxArticleSize bounds how much HTML is read from an untrusted URL.
const maxArticleSize = 10 * 1024 * 1024

// Article is the readable content of a fetched web page.
type Article struct {
	Title string
	Text  string
}

// FetchArticle downloads a web page and extracts its readable text as a
// vocabulary source. Browser-like headers avoid the blanket blocking some
// sites apply to default Go clients.
func FetchArticle(ctx context.Context, pageURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) >= maxArticleSize {
		return nil, fmt.Errorf("page exceeds %d byte limit", maxArticleSize)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}
	return &Article{Title: article.Title, Text: CleanText(article.TextContent)}, nil
}
