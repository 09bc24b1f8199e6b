package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"mccia-news/pkg/domain"
)

// sqliteTimeLayout is fixed width so lexical order equals time order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var articleColumns = []string{
	"url", "title", "summary", "full_text", "feed_source_name",
	"processed_at", "last_updated_at",
	"is_relevant", "relevance_justification", "category",
	"tweet", "instagram_caption", "linkedin_post",
	"hashtags", "image_keywords", "flares",
}

// SQLStore implements ArticleStore on Postgres (pgx) or SQLite (modernc)
type SQLStore struct {
	provider DBProvider
	dialect  Dialect
	builder  sq.StatementBuilderType
	now      func() time.Time
}

var _ ArticleStore = (*SQLStore)(nil)

// NewSQLStore creates a store over an already connected provider
func NewSQLStore(provider DBProvider, dialect Dialect) *SQLStore {
	var placeholder sq.PlaceholderFormat = sq.Dollar
	if dialect == DialectSQLite {
		placeholder = sq.Question
	}
	return &SQLStore{
		provider: provider,
		dialect:  dialect,
		builder:  sq.StatementBuilder.PlaceholderFormat(placeholder),
		now:      time.Now,
	}
}

func (s *SQLStore) db() (*sql.DB, error) {
	if s.provider == nil || s.provider.DB() == nil {
		return nil, ErrNotConnected
	}
	return s.provider.DB(), nil
}

// Exists reports whether a row with this URL exists
func (s *SQLStore) Exists(ctx context.Context, url string) (bool, error) {
	db, err := s.db()
	if err != nil {
		return false, err
	}

	query, args, err := s.builder.Select("1").From(ArticlesTable).Where(sq.Eq{"url": url}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	return true, nil
}

// InsertIfAbsent inserts the article; an existing URL is left untouched
func (s *SQLStore) InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error) {
	db, err := s.db()
	if err != nil {
		return false, err
	}

	now := s.now()
	processedAt := article.ProcessedAt
	if processedAt.IsZero() {
		processedAt = now
	}
	lastUpdated := article.LastUpdatedAt
	if lastUpdated.IsZero() {
		lastUpdated = processedAt
	}

	var category *string
	if article.Category != nil {
		category = domain.Ptr(string(*article.Category))
	}

	query, args, err := s.builder.Insert(ArticlesTable).
		Columns(articleColumns...).
		Values(
			article.URL, article.Title, article.Summary, article.FullText, article.FeedSourceName,
			s.timeValue(processedAt), s.timeValue(lastUpdated),
			s.nullableBool(article.IsRelevant), article.RelevanceJustification, category,
			article.Tweet, article.InstagramCaption, article.LinkedInPost,
			encodeList(article.Hashtags), encodeList(article.ImageKeywords), encodeList(article.Flares),
		).
		Suffix("ON CONFLICT (url) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert rows affected: %w", err)
	}
	return n == 1, nil
}

// Update writes the set fields and bumps last_updated_at. An empty update is a no-op.
func (s *SQLStore) Update(ctx context.Context, url string, update domain.ArticleUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil
	}
	db, err := s.db()
	if err != nil {
		return err
	}

	b := s.builder.Update(ArticlesTable)
	for _, f := range fields {
		b = b.Set(f.Column, s.encodeValue(f.Value))
	}
	b = b.Set("last_updated_at", s.timeValue(s.now())).Where(sq.Eq{"url": url})

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes one article by URL
func (s *SQLStore) Delete(ctx context.Context, url string) error {
	db, err := s.db()
	if err != nil {
		return err
	}

	query, args, err := s.builder.Delete(ArticlesTable).Where(sq.Eq{"url": url}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// DeleteProcessedBefore removes articles first seen before cutoff
func (s *SQLStore) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := s.db()
	if err != nil {
		return 0, err
	}

	query, args, err := s.builder.Delete(ArticlesTable).
		Where(sq.Lt{"processed_at": s.timeValue(cutoff)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge articles: %w", err)
	}
	return res.RowsAffected()
}

// ListPublishable returns relevant, categorised articles, newest first
func (s *SQLStore) ListPublishable(ctx context.Context, limit int) ([]domain.Article, error) {
	b := s.builder.Select(articleColumns...).From(ArticlesTable).
		Where(sq.Eq{"is_relevant": s.boolValue(true)}).
		Where(sq.NotEq{"category": nil}).
		Where(sq.NotEq{"category": string(domain.Uncategorized)}).
		OrderBy("processed_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return s.queryArticles(ctx, b)
}

// ListAll returns all articles, oldest first
func (s *SQLStore) ListAll(ctx context.Context) ([]domain.Article, error) {
	return s.queryArticles(ctx, s.builder.Select(articleColumns...).From(ArticlesTable).OrderBy("processed_at ASC"))
}

func (s *SQLStore) queryArticles(ctx context.Context, b sq.SelectBuilder) ([]domain.Article, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var (
		a                                 domain.Article
		fullText, justification, category sql.NullString
		tweet, caption, linkedIn          sql.NullString
		processedAt, lastUpdated          dbTime
		isRelevant                        sql.NullBool
		hashtags, imageKeywords, flares   jsonList
	)

	err := rows.Scan(
		&a.URL, &a.Title, &a.Summary, &fullText, &a.FeedSourceName,
		&processedAt, &lastUpdated,
		&isRelevant, &justification, &category,
		&tweet, &caption, &linkedIn,
		&hashtags, &imageKeywords, &flares,
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	a.FullText = nullString(fullText)
	a.ProcessedAt = processedAt.Time
	a.LastUpdatedAt = lastUpdated.Time
	if isRelevant.Valid {
		a.IsRelevant = domain.Ptr(isRelevant.Bool)
	}
	a.RelevanceJustification = nullString(justification)
	if category.Valid {
		a.Category = domain.Ptr(domain.Sector(category.String))
	}
	a.Tweet = nullString(tweet)
	a.InstagramCaption = nullString(caption)
	a.LinkedInPost = nullString(linkedIn)
	a.Hashtags = hashtags
	a.ImageKeywords = imageKeywords
	a.Flares = flares
	return a, nil
}

// timeValue renders a timestamp for the dialect's column type
func (s *SQLStore) timeValue(t time.Time) any {
	if s.dialect == DialectSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

func (s *SQLStore) boolValue(b bool) any {
	if s.dialect == DialectSQLite {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return b
}

func (s *SQLStore) nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return s.boolValue(*b)
}

// encodeValue converts an ArticleUpdate field value into a driver argument
func (s *SQLStore) encodeValue(v any) any {
	switch val := v.(type) {
	case bool:
		return s.boolValue(val)
	case []string:
		return encodeList(val)
	default:
		return val
	}
}

// encodeList stores string lists as JSON text; nil becomes NULL
func encodeList(items []string) any {
	if items == nil {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return string(raw)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return domain.Ptr(ns.String)
}

// dbTime scans TIMESTAMPTZ values and the fixed-width text used on SQLite
type dbTime struct {
	Time time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparseable time %q", s)
}

// jsonList scans a JSON array column into []string
type jsonList []string

func (l *jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported list value %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	*l = items
	return nil
}
