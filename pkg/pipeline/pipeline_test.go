package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mccia-news/pkg/domain"
	"mccia-news/pkg/feed"
)

// mockStore is an in-memory ArticleStore for testing
type mockStore struct {
	mu          sync.Mutex
	articles    map[string]*domain.Article
	deleted     []string
	existsErr   error
	insertErr   error
	updateErr   func(update domain.ArticleUpdate) error
	updateCalls int
	insertCalls int
}

func newMockStore() *mockStore {
	return &mockStore{articles: make(map[string]*domain.Article)}
}

func (m *mockStore) Exists(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.articles[url]
	return ok, nil
}

func (m *mockStore) InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if _, ok := m.articles[article.URL]; ok {
		return false, nil
	}
	stored := *article
	stored.LastUpdatedAt = stored.ProcessedAt
	m.articles[article.URL] = &stored
	return true, nil
}

func (m *mockStore) Update(ctx context.Context, url string, update domain.ArticleUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateErr != nil {
		if err := m.updateErr(update); err != nil {
			return err
		}
	}
	if a, ok := m.articles[url]; ok {
		a.Apply(update, time.Now())
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.articles, url)
	m.deleted = append(m.deleted, url)
	return nil
}

func (m *mockStore) get(url string) *domain.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.articles[url]
}

// mockSource returns canned entries per feed URL
type mockSource struct {
	mu        sync.Mutex
	entries   map[string][]feed.Entry
	errs      map[string]error
	fetched   []string
	callCount int
}

func (m *mockSource) Fetch(ctx context.Context, url string) ([]feed.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.fetched = append(m.fetched, url)
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	return m.entries[url], nil
}

// mockExtractor returns canned full text per article URL; unknown URLs fail
type mockExtractor struct {
	mu        sync.Mutex
	texts     map[string]string
	callCount int
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if text, ok := m.texts[url]; ok {
		return text, nil
	}
	return "", errors.New("download failed")
}

type mockRetention struct {
	days      int
	err       error
	callCount int
}

func (m *mockRetention) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	m.callCount++
	m.days = days
	if m.err != nil {
		return 0, m.err
	}
	return 4, nil
}

const feedURL = "https://feeds.example.com/business"

func testOptions() Options {
	return Options{
		Feeds:     []Feed{{Name: "Business Feed", URL: feedURL}},
		FeedDelay: -1,
	}
}

// Test Case 1: no feeds configured
// Expected Output: ErrNoFeeds, no collaborator called
func TestPipeline_Run_NoFeeds(t *testing.T) {
	source := &mockSource{}
	retention := &mockRetention{}
	p := New(Deps{Store: newMockStore(), Source: source, Extractor: &mockExtractor{}, Retention: retention}, Options{})

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoFeeds)
	assert.Zero(t, source.callCount)
	assert.Zero(t, retention.callCount)
}

// Test Case 2: a relevant article goes through every stage
// Input: one entry about electric vehicles in Pune, full text longer than summary
// Expected Output: stored, categorised as Automotive, drafts generated
func TestPipeline_Run_RelevantArticle(t *testing.T) {
	link := "https://news.example.com/ev"
	store := newMockStore()
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Pune automobile makers expand electric vehicle output", Link: link, Summary: "Firms add shifts."},
	}}}
	extractor := &mockExtractor{texts: map[string]string{
		link: "Automobile firms in Pune are adding shifts to meet electric vehicle demand across the state.",
	}}
	retention := &mockRetention{}

	stats, err := New(Deps{Store: store, Source: source, Extractor: extractor, Retention: retention}, testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 1, stats.Feeds)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Relevant)
	assert.Equal(t, 1, stats.Categorized)
	assert.Equal(t, 1, stats.Generated)
	assert.Equal(t, int64(4), stats.Purged)
	assert.Equal(t, 7, retention.days)

	a := store.get(link)
	require.NotNil(t, a)
	assert.Equal(t, "Business Feed", a.FeedSourceName)
	require.NotNil(t, a.FullText)
	assert.Contains(t, *a.FullText, "adding shifts")
	require.NotNil(t, a.IsRelevant)
	assert.True(t, *a.IsRelevant)
	assert.Equal(t, "Keyword 'pune' found.", *a.RelevanceJustification)
	require.NotNil(t, a.Category)
	assert.Equal(t, domain.Automotive, *a.Category)
	require.NotNil(t, a.Tweet)
	assert.Contains(t, *a.Tweet, link)
	assert.LessOrEqual(t, len(a.Hashtags), 7)
	assert.LessOrEqual(t, len(a.ImageKeywords), 5)
	assert.True(t, a.Publishable())
}

// Test Case 2b: storing the drafts fails
// Expected Output: categorised but not counted as generated, error counted
func TestPipeline_Run_DraftUpdateFailure(t *testing.T) {
	link := "https://news.example.com/ev"
	store := newMockStore()
	store.updateErr = func(update domain.ArticleUpdate) error {
		if update.Tweet != nil {
			return errors.New("write failed")
		}
		return nil
	}
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Pune automobile makers expand electric vehicle output", Link: link, Summary: "Firms add shifts."},
	}}}

	stats, err := New(Deps{Store: store, Source: source, Extractor: &mockExtractor{}}, testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Categorized)
	assert.Zero(t, stats.Generated)
	assert.Equal(t, 1, stats.Errors)

	a := store.get(link)
	require.NotNil(t, a)
	assert.Nil(t, a.Tweet)
}

// Test Case 3: an irrelevant article is created then deleted
// Expected Output: record gone afterwards, counted as irrelevant
func TestPipeline_Run_IrrelevantArticleDeleted(t *testing.T) {
	link := "https://news.example.com/cricket"
	store := newMockStore()
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Cricket score", Link: link, Summary: "The match was close."},
	}}}

	stats, err := New(Deps{Store: store, Source: source, Extractor: &mockExtractor{}}, testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Irrelevant)
	assert.Zero(t, stats.Relevant)
	assert.Nil(t, store.get(link))
	assert.Equal(t, []string{link}, store.deleted)
	assert.Equal(t, 1, store.insertCalls)
}

// Test Case 4: a relevant article with a single specific keyword is stored Uncategorized without drafts
func TestPipeline_Run_UncategorizedHasNoDrafts(t *testing.T) {
	link := "https://news.example.com/livestock"
	store := newMockStore()
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Livestock census begins", Link: link, Summary: "Counting starts Monday."},
	}}}

	stats, err := New(Deps{Store: store, Source: source, Extractor: &mockExtractor{}}, testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Relevant)
	assert.Zero(t, stats.Categorized)
	assert.Zero(t, stats.Generated)

	a := store.get(link)
	require.NotNil(t, a)
	require.NotNil(t, a.Category)
	assert.Equal(t, domain.Uncategorized, *a.Category)
	assert.Nil(t, a.Tweet)
	assert.Nil(t, a.FullText)
	assert.False(t, a.Publishable())
}

// Test Case 5: already stored and linkless entries are skipped
func TestPipeline_Run_SkipsKnownAndLinklessEntries(t *testing.T) {
	known := "https://news.example.com/known"
	store := newMockStore()
	store.articles[known] = &domain.Article{URL: known, Title: "Original"}
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Pune news", Link: known, Summary: "s"},
		{Title: "No link", Summary: "s"},
	}}}
	extractor := &mockExtractor{}

	stats, err := New(Deps{Store: store, Source: source, Extractor: extractor}, testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 2, stats.Skipped)
	assert.Zero(t, stats.New)
	assert.Zero(t, store.insertCalls)
	assert.Zero(t, extractor.callCount)
	assert.Equal(t, "Original", store.get(known).Title)
}

// Test Case 6: dedup store fault fails open and the atomic insert still guards the row
func TestPipeline_Run_DedupFaultFailsOpen(t *testing.T) {
	known := "https://news.example.com/known"
	store := newMockStore()
	store.existsErr = errors.New("timeout")
	store.articles[known] = &domain.Article{URL: known, Title: "Original"}
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Pune news", Link: known, Summary: "s"},
	}}}

	stats, err := New(Deps{Store: store, Source: source, Extractor: &mockExtractor{}}, testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.insertCalls)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.New)
	assert.Zero(t, store.updateCalls)
}

// Test Case 7: feed failures are counted and the remaining feeds still run
func TestPipeline_Run_FeedErrorsDoNotStopRun(t *testing.T) {
	good := "https://feeds.example.com/good"
	bad := "https://feeds.example.com/bad"
	empty := "https://feeds.example.com/empty"
	link := "https://news.example.com/msme"
	source := &mockSource{
		entries: map[string][]feed.Entry{good: {
			{Title: "MSME credit in Pune", Link: link, Summary: "Small units get help."},
		}},
		errs: map[string]error{bad: errors.New("404"), empty: feed.ErrNoItems},
	}
	retention := &mockRetention{err: errors.New("db down")}

	opts := Options{
		Feeds:     []Feed{{"Bad", bad}, {"Empty", empty}, {"Good", good}},
		FeedDelay: -1,
	}
	stats, err := New(Deps{Store: newMockStore(), Source: source, Extractor: &mockExtractor{}, Retention: retention}, opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{bad, empty, good}, source.fetched)
	assert.Equal(t, 1, stats.FeedErrors)
	assert.Equal(t, 2, stats.Feeds)
	assert.Equal(t, 1, stats.New)
	assert.Zero(t, stats.Purged)
}

// Test Case 8: full text shorter than the summary is stored but not used for analysis
func TestPipeline_Run_ShortFullTextIgnoredForAnalysis(t *testing.T) {
	link := "https://news.example.com/short"
	store := newMockStore()
	source := &mockSource{entries: map[string][]feed.Entry{feedURL: {
		{Title: "Weekly roundup", Link: link, Summary: "Pune exporters report stronger tariff outlook for shipping lines."},
	}}}
	extractor := &mockExtractor{texts: map[string]string{link: "Subscribe now"}}

	stats, err := New(Deps{Store: store, Source: source, Extractor: extractor}, testOptions()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Relevant)

	a := store.get(link)
	require.NotNil(t, a)
	assert.Equal(t, "Subscribe now", *a.FullText)
	assert.Equal(t, domain.ForeignTrade, *a.Category)
}

// Test Case 9: concurrent workers never insert the same URL twice
func TestPipeline_Run_ConcurrentFeedsShareURLs(t *testing.T) {
	link := "https://news.example.com/shared"
	entry := feed.Entry{Title: "Pune trade fair opens", Link: link, Summary: "Exhibitors arrive."}
	var feeds []Feed
	entries := map[string][]feed.Entry{}
	for _, u := range []string{"https://f1.example.com", "https://f2.example.com", "https://f3.example.com", "https://f4.example.com"} {
		feeds = append(feeds, Feed{Name: u, URL: u})
		entries[u] = []feed.Entry{entry}
	}
	store := newMockStore()

	stats, err := New(Deps{Store: store, Source: &mockSource{entries: entries}, Extractor: &mockExtractor{}},
		Options{Feeds: feeds, FeedDelay: -1, Workers: 4}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 3, stats.Skipped)
}

func TestNew_Defaults(t *testing.T) {
	p := New(Deps{Store: newMockStore()}, Options{})
	assert.Equal(t, DefaultFeedDelay, p.opts.FeedDelay)
	assert.Equal(t, 7, p.opts.RetentionDays)
	assert.Equal(t, 1, p.opts.Workers)

	p = New(Deps{Store: newMockStore()}, Options{FeedDelay: -1})
	assert.Equal(t, time.Duration(-1), p.opts.FeedDelay)
}
