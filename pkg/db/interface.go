package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mccia-news/pkg/domain"
)

// ArticlesTable is the table (or collection) holding articles
const ArticlesTable = "articles"

// ErrNotConnected is returned when a store is used before Connect succeeded
var ErrNotConnected = errors.New("database not connected")

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows PostgresClient, SupabaseClient and SQLiteClient to back the same SQLStore.
type DBProvider interface {
	DB() *sql.DB
}

// ArticleStore is the persistence surface the pipeline needs.
// Implementations must make InsertIfAbsent atomic so concurrent runs insert a URL at most once.
type ArticleStore interface {
	// Exists reports whether a record with this URL is stored
	Exists(ctx context.Context, url string) (bool, error)

	// InsertIfAbsent stores the article unless its URL is already present.
	// It never overwrites; the bool reports whether a row was created.
	InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error)

	// Update applies the set fields of update and touches last_updated_at
	Update(ctx context.Context, url string, update domain.ArticleUpdate) error

	// Delete removes the article with this URL, if any
	Delete(ctx context.Context, url string) error

	// DeleteProcessedBefore removes every article with processed_at before cutoff
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// ListPublishable returns relevant, categorised articles, newest first
	ListPublishable(ctx context.Context, limit int) ([]domain.Article, error)

	// ListAll returns every stored article, oldest first
	ListAll(ctx context.Context) ([]domain.Article, error)
}
