package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"mccia-news/pkg/content"
	"mccia-news/pkg/httpclient"
)

const (
	// DefaultTitle is used for entries without a title
	DefaultTitle = "N/A"
	// EmptySummary replaces summaries that are empty once markup is removed
	EmptySummary = "No textual summary available."
)

// ErrNoItems is returned for a feed that parsed but carries no entries
var ErrNoItems = errors.New("feed contains no items")

// Entry is one feed item. Link may be empty; callers skip such entries.
type Entry struct {
	Title   string
	Link    string
	Summary string
}

// Source fetches and parses a feed
type Source interface {
	Fetch(ctx context.Context, feedURL string) ([]Entry, error)
}

// RSSSource handles RSS/Atom feed parsing operations
type RSSSource struct {
	client     *httpclient.HTTPClient
	feedParser *gofeed.Parser
}

var _ Source = (*RSSSource)(nil)

// NewRSSSource creates a feed source that downloads with client
func NewRSSSource(client *httpclient.HTTPClient) *RSSSource {
	return &RSSSource{
		client:     client,
		feedParser: gofeed.NewParser(),
	}
}

// Fetch downloads and parses an RSS/Atom feed, returning its entries in feed order
func (s *RSSSource) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	body, err := s.client.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	parsed, err := s.feedParser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}
	if parsed == nil || len(parsed.Items) == 0 {
		return nil, ErrNoItems
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toEntry(item))
	}
	return entries, nil
}

func toEntry(item *gofeed.Item) Entry {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = DefaultTitle
	}

	raw := item.Description
	if strings.TrimSpace(raw) == "" {
		raw = item.Content
	}
	summary := content.CleanHTML(raw)
	if summary == "" {
		summary = EmptySummary
	}

	return Entry{
		Title:   title,
		Link:    strings.TrimSpace(item.Link),
		Summary: summary,
	}
}
