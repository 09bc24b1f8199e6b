package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"

	"mccia-news/pkg/domain"
)

// RESTClient is the part of the Supabase SDK the REST store uses.
// Both *supabase.Client and *postgrest.Client satisfy it.
type RESTClient interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseRESTStore implements ArticleStore over PostgREST.
// The articles table must have url as primary key for InsertIfAbsent to be atomic.
type SupabaseRESTStore struct {
	client RESTClient
	now    func() time.Time
}

var _ ArticleStore = (*SupabaseRESTStore)(nil)

// NewSupabaseRESTStore creates a REST-backed store
func NewSupabaseRESTStore(client RESTClient) *SupabaseRESTStore {
	return &SupabaseRESTStore{client: client, now: time.Now}
}

func (s *SupabaseRESTStore) table() *postgrest.QueryBuilder {
	return s.client.From(ArticlesTable)
}

// Exists reports whether a row with this URL exists.
// The postgrest client has no context support; ctx is only checked up front.
func (s *SupabaseRESTStore) Exists(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	body, _, err := s.table().Select("url", "", false).Eq("url", url).Limit(1, "").Execute()
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	var rows []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, fmt.Errorf("decode exists: %w", err)
	}
	return len(rows) > 0, nil
}

// InsertIfAbsent inserts without upsert; a duplicate-key rejection means the URL was already stored
func (s *SupabaseRESTStore) InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	row := *article
	if row.ProcessedAt.IsZero() {
		row.ProcessedAt = s.now()
	}
	if row.LastUpdatedAt.IsZero() {
		row.LastUpdatedAt = row.ProcessedAt
	}

	body, _, err := s.table().Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert article: %w", err)
	}

	var inserted []json.RawMessage
	if err := json.Unmarshal(body, &inserted); err != nil {
		return false, fmt.Errorf("decode insert: %w", err)
	}
	return len(inserted) > 0, nil
}

// Update patches the set fields and last_updated_at
func (s *SupabaseRESTStore) Update(ctx context.Context, url string, update domain.ArticleUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	patch := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		patch[f.Column] = f.Value
	}
	patch["last_updated_at"] = s.now().UTC().Format(time.RFC3339Nano)

	if _, _, err := s.table().Update(patch, "minimal", "").Eq("url", url).Execute(); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes the row with this URL
func (s *SupabaseRESTStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.table().Delete("minimal", "").Eq("url", url).Execute(); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// DeleteProcessedBefore removes rows first seen before cutoff and reports how many went
func (s *SupabaseRESTStore) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	body, _, err := s.table().
		Delete("representation", "").
		Lt("processed_at", cutoff.UTC().Format(time.RFC3339Nano)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("purge articles: %w", err)
	}
	var deleted []json.RawMessage
	if err := json.Unmarshal(body, &deleted); err != nil {
		return 0, fmt.Errorf("decode purge: %w", err)
	}
	return int64(len(deleted)), nil
}

// ListPublishable returns relevant, categorised articles, newest first.
// neq already rejects NULL categories in PostgREST.
func (s *SupabaseRESTStore) ListPublishable(ctx context.Context, limit int) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := s.table().Select("*", "", false).
		Eq("is_relevant", strconv.FormatBool(true)).
		Neq("category", string(domain.Uncategorized)).
		Order("processed_at", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		q = q.Limit(limit, "")
	}
	body, _, err := q.Execute()
	return decodeArticles(body, err)
}

// ListAll returns every row, oldest first
func (s *SupabaseRESTStore) ListAll(ctx context.Context) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, _, err := s.table().Select("*", "", false).
		Order("processed_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	return decodeArticles(body, err)
}

func decodeArticles(body []byte, err error) ([]domain.Article, error) {
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	var articles []domain.Article
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return articles, nil
}

// isDuplicateKey recognises Postgres unique violations surfaced by PostgREST
func isDuplicateKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
