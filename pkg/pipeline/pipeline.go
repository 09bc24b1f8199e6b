package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"mccia-news/pkg/classify"
	"mccia-news/pkg/content"
	"mccia-news/pkg/dedup"
	"mccia-news/pkg/domain"
	"mccia-news/pkg/feed"
	"mccia-news/pkg/logging"
	"mccia-news/pkg/retention"
	"mccia-news/pkg/social"
	"mccia-news/pkg/worker"
)

// DefaultFeedDelay is the pause after each feed
const DefaultFeedDelay = time.Second

// ErrNoFeeds is returned by Run when no feeds are configured
var ErrNoFeeds = errors.New("pipeline has no feeds")

// ArticleStore is the persistence the pipeline drives
type ArticleStore interface {
	Exists(ctx context.Context, url string) (bool, error)
	InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error)
	Update(ctx context.Context, url string, update domain.ArticleUpdate) error
	Delete(ctx context.Context, url string) error
}

// Retention purges old articles before a run fetches anything
type Retention interface {
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}

// Feed is a named feed URL
type Feed struct {
	Name string
	URL  string
}

// Deps are the collaborators of a pipeline. Retention is optional.
type Deps struct {
	Store     ArticleStore
	Source    feed.Source
	Extractor content.Extractor
	Retention Retention
}

// Options tune a pipeline run. A negative FeedDelay disables the pause between feeds.
type Options struct {
	Feeds         []Feed
	RetentionDays int
	FeedDelay     time.Duration
	Workers       int
	Now           func() time.Time
}

// Stats counts what one run did
type Stats struct {
	RunID       string
	Feeds       int // feeds fetched successfully
	FeedErrors  int
	Entries     int
	Skipped     int // no link, already stored, or lost an insert race
	New         int
	Relevant    int
	Irrelevant  int
	Categorized int
	Generated   int
	Errors      int // persistence calls that failed
	Purged      int64
}

func (s *Stats) add(o Stats) {
	s.Feeds += o.Feeds
	s.FeedErrors += o.FeedErrors
	s.Entries += o.Entries
	s.Skipped += o.Skipped
	s.New += o.New
	s.Relevant += o.Relevant
	s.Irrelevant += o.Irrelevant
	s.Categorized += o.Categorized
	s.Generated += o.Generated
	s.Errors += o.Errors
}

// Pipeline ingests feeds, classifies new articles and stores the drafts
type Pipeline struct {
	deps Deps
	opts Options
	gate *dedup.Gate
}

// New creates a pipeline. Zero options fall back to defaults.
func New(deps Deps, opts Options) *Pipeline {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = retention.DefaultDays
	}
	if opts.FeedDelay == 0 {
		opts.FeedDelay = DefaultFeedDelay
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		deps: deps,
		opts: opts,
		gate: dedup.NewGate(deps.Store),
	}
}

// Run purges expired articles, then processes every configured feed.
// Per-feed and per-item failures are logged and counted, never returned.
// The returned error is ErrNoFeeds or the context error.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	if len(p.opts.Feeds) == 0 {
		return Stats{}, ErrNoFeeds
	}

	r := &run{p: p, id: ulid.Make().String()}
	stats := Stats{RunID: r.id}
	r.logf("starting with %d feeds", len(p.opts.Feeds))

	if p.deps.Retention != nil {
		purged, err := p.deps.Retention.PurgeOlderThan(ctx, p.opts.RetentionDays)
		if err != nil {
			r.logf("retention failed: %v", err)
		} else {
			stats.Purged = purged
		}
	}

	var mu sync.Mutex
	manager := worker.NewManager[Feed]("Pipeline["+r.id+"]", p.opts.Workers, p.opts.FeedDelay)
	_, err := manager.Run(ctx, p.opts.Feeds, func(ctx context.Context, workerID int, f Feed) error {
		fs, err := r.processFeed(ctx, f)
		mu.Lock()
		stats.add(fs)
		mu.Unlock()
		return err
	})

	r.logf("done: feeds=%d feed_errors=%d entries=%d new=%d relevant=%d irrelevant=%d categorized=%d generated=%d skipped=%d errors=%d purged=%d",
		stats.Feeds, stats.FeedErrors, stats.Entries, stats.New, stats.Relevant, stats.Irrelevant,
		stats.Categorized, stats.Generated, stats.Skipped, stats.Errors, stats.Purged)
	return stats, err
}

// run carries per-invocation state
type run struct {
	p  *Pipeline
	id string
}

func (r *run) logf(format string, args ...any) {
	log.Printf("Pipeline[%s]: "+format, append([]any{r.id}, args...)...)
}

func (r *run) processFeed(ctx context.Context, f Feed) (Stats, error) {
	var stats Stats
	r.logf("fetching feed %s from %s", f.Name, f.URL)

	entries, err := r.p.deps.Source.Fetch(ctx, f.URL)
	if errors.Is(err, feed.ErrNoItems) {
		r.logf("no entries found in feed %s", f.Name)
		stats.Feeds++
		return stats, nil
	}
	if err != nil {
		stats.FeedErrors++
		return stats, fmt.Errorf("feed %s: %w", f.Name, err)
	}

	stats.Feeds++
	r.logf("found %d entries in %s", len(entries), f.Name)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		stats.Entries++
		r.processEntry(ctx, f, entry, &stats)
	}
	return stats, nil
}

func (r *run) processEntry(ctx context.Context, f Feed, entry feed.Entry, stats *Stats) {
	store := r.p.deps.Store

	if entry.Link == "" {
		r.logf("skipping entry without link: %s", entry.Title)
		stats.Skipped++
		return
	}
	if r.p.gate.IsProcessed(ctx, entry.Link) {
		stats.Skipped++
		return
	}

	inserted, err := store.InsertIfAbsent(ctx, &domain.Article{
		URL:            entry.Link,
		Title:          entry.Title,
		Summary:        entry.Summary,
		FeedSourceName: f.Name,
		ProcessedAt:    r.p.opts.Now(),
	})
	if err != nil {
		r.logf("failed to store %s: %v", entry.Link, err)
		stats.Errors++
		return
	}
	if !inserted {
		stats.Skipped++
		return
	}
	stats.New++
	r.logf("new article: %s (%s)", entry.Title, entry.Link)

	text := r.analysisText(ctx, entry, stats)

	relevance := classify.Classify(entry.Title, text)
	r.logf("relevant=%t for %s: %s", relevance.Relevant, entry.Link, relevance.Justification)
	r.update(ctx, entry.Link, domain.ArticleUpdate{
		IsRelevant:             domain.Ptr(relevance.Relevant),
		RelevanceJustification: domain.Ptr(relevance.Justification),
	}, stats)

	if !relevance.Relevant {
		stats.Irrelevant++
		if err := store.Delete(ctx, entry.Link); err != nil {
			r.logf("failed to delete irrelevant %s: %v", entry.Link, err)
			stats.Errors++
		}
		return
	}
	stats.Relevant++

	sector := classify.Categorize(entry.Title, text)
	r.logf("category %s for %s", sector, entry.Link)
	r.update(ctx, entry.Link, domain.ArticleUpdate{Category: domain.Ptr(sector)}, stats)
	if sector == domain.Uncategorized {
		return
	}
	stats.Categorized++

	posts := social.Generate(entry.Title, entry.Summary, sector, entry.Link)
	logging.Debugf("Pipeline[%s]: tweet: %s", r.id, posts.Tweet)
	logging.Debugf("Pipeline[%s]: hashtags: %v image keywords: %v", r.id, posts.Hashtags, posts.ImageKeywords)
	drafts := domain.ArticleUpdate{
		Tweet:            domain.Ptr(posts.Tweet),
		InstagramCaption: domain.Ptr(posts.InstagramCaption),
		LinkedInPost:     domain.Ptr(posts.LinkedInPost),
		Hashtags:         posts.Hashtags,
		ImageKeywords:    posts.ImageKeywords,
	}
	if r.update(ctx, entry.Link, drafts, stats) {
		stats.Generated++
	}
}

// analysisText extracts and stores the full text, returning it when it is longer than the summary
func (r *run) analysisText(ctx context.Context, entry feed.Entry, stats *Stats) string {
	fullText, err := r.p.deps.Extractor.Extract(ctx, entry.Link)
	if err != nil {
		r.logf("extraction failed for %s, using summary: %v", entry.Link, err)
		return entry.Summary
	}

	r.update(ctx, entry.Link, domain.ArticleUpdate{FullText: domain.Ptr(fullText)}, stats)
	if fullText != "" && utf8.RuneCountInString(fullText) > utf8.RuneCountInString(entry.Summary) {
		return fullText
	}
	return entry.Summary
}

func (r *run) update(ctx context.Context, url string, u domain.ArticleUpdate, stats *Stats) bool {
	if err := r.p.deps.Store.Update(ctx, url, u); err != nil {
		r.logf("failed to update %s: %v", url, err)
		stats.Errors++
		return false
	}
	return true
}
