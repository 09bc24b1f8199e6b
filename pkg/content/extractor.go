package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"mccia-news/pkg/httpclient"
)

// ErrEmptyText is returned when a page yields no readable text
var ErrEmptyText = errors.New("no article text found")

// Extractor fetches an article page and returns its main text
type Extractor interface {
	Extract(ctx context.Context, articleURL string) (string, error)
}

// ReadabilityExtractor implements Extractor with go-readability, falling back to the page body text
type ReadabilityExtractor struct {
	client *httpclient.HTTPClient
}

var _ Extractor = (*ReadabilityExtractor)(nil)

// NewReadabilityExtractor creates an extractor that downloads pages with client
func NewReadabilityExtractor(client *httpclient.HTTPClient) *ReadabilityExtractor {
	return &ReadabilityExtractor{client: client}
}

// Extract downloads articleURL and extracts its main text
func (e *ReadabilityExtractor) Extract(ctx context.Context, articleURL string) (string, error) {
	body, err := e.client.Fetch(ctx, articleURL)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(articleURL)
	if err != nil {
		pageURL = nil
	}

	text, err := ExtractText(body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", articleURL, err)
	}
	return text, nil
}

// ExtractText extracts the main article text from HTML content.
// Readability is tried first; if it finds nothing the visible body text is used.
func ExtractText(html []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	if text := selectionText(doc.Find("body")); text != "" {
		return text, nil
	}
	return "", ErrEmptyText
}
