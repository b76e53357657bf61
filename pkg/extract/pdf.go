package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	rePageNumber = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	reURL        = regexp.MustCompile(`https?://\S+`)
	reEmail      = regexp.MustCompile(`\S+@\S+`)
)

// ExtractPDFText extracts the text of a PDF's page range (1-indexed,
// inclusive; endPage 0 means the last page) and cleans it for word
// extraction.
func ExtractPDFText(path string, startPage, endPage int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF %s: %w", path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if startPage < 1 {
		startPage = 1
	}
	if endPage <= 0 || endPage > numPages {
		endPage = numPages
	}
	if startPage > endPage {
		return "", fmt.Errorf("page range %d-%d out of bounds for %d pages", startPage, endPage, numPages)
	}

	var b strings.Builder
	for i := startPage; i <= endPage; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages fail to parse; keep what the rest yields.
			continue
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return CleanText(b.String()), nil
}

// PDFPageCount returns the number of pages in a PDF.
func PDFPageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open PDF %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// CleanText normalizes extracted document text: drops URLs, e-mail
// addresses and bare page numbers, and collapses whitespace runs so the
// tokenizer sees plain prose.
func CleanText(text string) string {
	text = reURL.ReplaceAllString(text, "")
	text = reEmail.ReplaceAllString(text, "")
	text = rePageNumber.ReplaceAllString(text, "")
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
