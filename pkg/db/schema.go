package db

import (
	"context"
	"fmt"
)

// Dialect selects placeholder style, column types and value encoding for SQLStore
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS articles (
	url                     TEXT PRIMARY KEY,
	title                   TEXT NOT NULL DEFAULT '',
	summary                 TEXT NOT NULL DEFAULT '',
	full_text               TEXT,
	feed_source_name        TEXT NOT NULL DEFAULT '',
	processed_at            TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_updated_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	is_relevant             BOOLEAN,
	relevance_justification TEXT,
	category                TEXT,
	tweet                   TEXT,
	instagram_caption       TEXT,
	linkedin_post           TEXT,
	hashtags                JSONB,
	image_keywords          JSONB,
	flares                  JSONB
);
CREATE INDEX IF NOT EXISTS idx_articles_processed_at ON articles (processed_at DESC);
`

// Timestamps are stored as fixed-width UTC text so string comparison orders them.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS articles (
	url                     TEXT PRIMARY KEY,
	title                   TEXT NOT NULL DEFAULT '',
	summary                 TEXT NOT NULL DEFAULT '',
	full_text               TEXT,
	feed_source_name        TEXT NOT NULL DEFAULT '',
	processed_at            TEXT NOT NULL,
	last_updated_at         TEXT NOT NULL,
	is_relevant             INTEGER,
	relevance_justification TEXT,
	category                TEXT,
	tweet                   TEXT,
	instagram_caption       TEXT,
	linkedin_post           TEXT,
	hashtags                TEXT,
	image_keywords          TEXT,
	flares                  TEXT
);
CREATE INDEX IF NOT EXISTS idx_articles_processed_at ON articles (processed_at DESC);
`

// EnsureSchema creates the articles table and its index if they are missing
func EnsureSchema(ctx context.Context, provider DBProvider, dialect Dialect) error {
	db := provider.DB()
	if db == nil {
		return ErrNotConnected
	}

	schema := postgresSchema
	if dialect == DialectSQLite {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create %s schema: %w", dialect, err)
	}
	return nil
}
