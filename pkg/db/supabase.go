package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	supabase "github.com/supabase-community/supabase-go"
)

// SupabaseMode says how a SupabaseClient reaches the articles table
type SupabaseMode int

const (
	// SupabaseOffline means Connect has not succeeded
	SupabaseOffline SupabaseMode = iota
	// SupabaseDirect talks Postgres over pgx
	SupabaseDirect
	// SupabaseREST goes through PostgREST with the project URL and key
	SupabaseREST
)

func (m SupabaseMode) String() string {
	switch m {
	case SupabaseDirect:
		return "direct"
	case SupabaseREST:
		return "rest"
	default:
		return "offline"
	}
}

// SupabaseConfig holds the Supabase credentials.
type SupabaseConfig struct {
	// ConnectionString is a full Postgres DSN. When empty one is derived from SupabaseURL and Password.
	ConnectionString string

	// SupabaseURL is the project URL, e.g. "https://[project-ref].supabase.co"
	SupabaseURL string

	// SupabaseKey is the service_role API key
	SupabaseKey string

	// Password is the database password, not the API key
	Password string

	MaxOpenConns int
	MaxIdleConns int
	ConnMaxIdle  time.Duration
	ConnMaxLife  time.Duration
}

// SupabaseClient opens the articles table either directly or over REST.
// A direct connection wins when it can be established; REST is the fallback.
type SupabaseClient struct {
	db   *sql.DB
	rest RESTClient
	cfg  SupabaseConfig
}

// NewSupabaseClient constructs a Supabase client. Call Connect before use.
func NewSupabaseClient(cfg SupabaseConfig) *SupabaseClient {
	return &SupabaseClient{cfg: cfg}
}

// Connect picks the mode: a DSN (given or derived from the password) is tried first,
// and URL+key alone selects REST.
func (c *SupabaseClient) Connect(ctx context.Context) error {
	if c.cfg.SupabaseURL != "" && c.cfg.SupabaseKey != "" {
		sdk, err := supabase.NewClient(c.cfg.SupabaseURL, c.cfg.SupabaseKey, nil)
		if err != nil {
			return fmt.Errorf("initialize supabase SDK: %w", err)
		}
		c.rest = sdk
	}

	dsn := c.cfg.ConnectionString
	if dsn == "" && c.cfg.Password != "" {
		var err error
		if dsn, err = supabaseDSN(c.cfg.SupabaseURL, c.cfg.Password); err != nil {
			if c.rest == nil {
				return err
			}
			log.Printf("Supabase: %v, using REST API", err)
		}
	}

	if dsn != "" {
		db, err := c.openDirect(ctx, dsn)
		switch {
		case err == nil:
			c.db = db
		case c.rest != nil:
			log.Printf("Supabase: direct connection failed (%v), using REST API", err)
		default:
			return err
		}
	}

	if c.Mode() == SupabaseOffline {
		return errors.New("supabase needs a connection string, a database password or URL+key")
	}
	log.Printf("Supabase: connected in %s mode", c.Mode())
	return nil
}

func (c *SupabaseClient) openDirect(ctx context.Context, dsn string) (*sql.DB, error) {
	// The Supabase pooler rejects cached prepared statements
	dsn = withParam(dsn, "statement_cache_capacity", "0")
	dsn = withParam(dsn, "default_query_exec_mode", "simple_protocol")

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open supabase postgres: %w", err)
	}
	applyPool(db, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns, c.cfg.ConnMaxIdle, c.cfg.ConnMaxLife)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping supabase postgres: %w", err)
	}
	return db, nil
}

// Mode reports the active connection mode
func (c *SupabaseClient) Mode() SupabaseMode {
	switch {
	case c.db != nil:
		return SupabaseDirect
	case c.rest != nil:
		return SupabaseREST
	default:
		return SupabaseOffline
	}
}

// Store returns the ArticleStore for the active mode
func (c *SupabaseClient) Store() (ArticleStore, error) {
	switch c.Mode() {
	case SupabaseDirect:
		return NewSQLStore(c, DialectPostgres), nil
	case SupabaseREST:
		return NewSupabaseRESTStore(c.rest), nil
	default:
		return nil, ErrNotConnected
	}
}

// Close closes the direct connection, if any
func (c *SupabaseClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB returns the direct handle, or nil in REST mode
func (c *SupabaseClient) DB() *sql.DB {
	return c.db
}

// supabaseDSN derives the database DSN from "https://<ref>.supabase.co" and the database password
func supabaseDSN(projectURL, password string) (string, error) {
	if projectURL == "" {
		return "", errors.New("supabase URL is required to derive a connection string")
	}
	parsed, err := url.Parse(projectURL)
	if err != nil {
		return "", fmt.Errorf("parse supabase URL: %w", err)
	}

	ref, _, ok := strings.Cut(parsed.Host, ".")
	if !ok || ref == "" {
		return "", fmt.Errorf("supabase URL %q is not of the form https://<ref>.supabase.co", projectURL)
	}

	return fmt.Sprintf("postgresql://postgres:%s@db.%s.supabase.co:5432/postgres?sslmode=require",
		url.QueryEscape(password), ref), nil
}

// withParam appends key=value to a DSN unless key is already present
func withParam(dsn, key, value string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + key + "=" + value
}
