package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names a storage backend
type Backend string

const (
	BackendSupabase Backend = "supabase"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMongo    Backend = "mongo"
)

const (
	configPathEnv      = "NEWSPARSER_CONFIG"
	backendEnv         = "NEWSPARSER_BACKEND"
	supabaseURLEnv     = "SUPABASE_URL"
	supabaseKeyEnv     = "SUPABASE_SERVICE_KEY"
	supabasePassEnv    = "SUPABASE_DB_PASSWORD"
	databaseURLEnv     = "DATABASE_URL"
	mongoURIEnv        = "MONGO_URI"
	sqlitePathEnv      = "SQLITE_PATH"
	retentionDaysEnv   = "RETENTION_DAYS"
	logLevelEnv        = "LOG_LEVEL"
	logFileEnv         = "LOG_FILE"
	defaultMongoDB     = "mccia"
	defaultSQLitePath  = "data/news.db"
	defaultListLimit   = 500
	defaultHTTPTimeout = 30 * time.Second
)

// ErrMissingCredentials is returned when the selected backend lacks its connection settings
var ErrMissingCredentials = errors.New("missing storage credentials")

// Config holds all settings of the news parser.
type Config struct {
	Backend  Backend        `yaml:"backend" validate:"required,oneof=supabase postgres sqlite mongo"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Log      LogConfig      `yaml:"log"`
	Feeds    []FeedConfig   `yaml:"feeds" validate:"required,min=1,dive"`
}

// SupabaseConfig holds the project URL and service key; DBPassword enables direct Postgres access.
type SupabaseConfig struct {
	URL              string `yaml:"url" validate:"omitempty,url"`
	ServiceKey       string `yaml:"serviceKey"`
	DBPassword       string `yaml:"dbPassword"`
	ConnectionString string `yaml:"connectionString"`
}

// PostgresConfig describes a plain Postgres connection.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SQLiteConfig points at a local database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MongoConfig describes the MongoDB connection.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// PipelineConfig tunes ingestion.
type PipelineConfig struct {
	RetentionDays int           `yaml:"retentionDays" validate:"min=1"`
	FeedDelay     time.Duration `yaml:"feedDelay" validate:"min=0s"`
	Workers       int           `yaml:"workers" validate:"min=1,max=32"`
	ListLimit     int           `yaml:"listLimit" validate:"min=1"`
	HTTPTimeout   time.Duration `yaml:"httpTimeout"`
}

// LogConfig selects verbosity and an optional rotating log file.
type LogConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb" validate:"min=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"min=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"min=0"`
}

// FeedConfig is one named feed.
type FeedConfig struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

// LoadDotEnv loads .env style files that exist. Variables already set are kept.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("config: cannot load %s: %v", p, err)
		}
	}
}

// Load reads YAML configuration (if a path is given or NEWSPARSER_CONFIG is set)
// on top of the defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(backendEnv); v != "" {
		c.Backend = Backend(v)
	}
	if v := os.Getenv(supabaseURLEnv); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv(supabaseKeyEnv); v != "" {
		c.Supabase.ServiceKey = v
	}
	if v := os.Getenv(supabasePassEnv); v != "" {
		c.Supabase.DBPassword = v
	}
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv(mongoURIEnv); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv(sqlitePathEnv); v != "" {
		c.SQLite.Path = v
	}
	if v := os.Getenv(retentionDaysEnv); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", retentionDaysEnv, v, err)
		}
		c.Pipeline.RetentionDays = days
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(logFileEnv); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate checks field constraints and that the selected backend has credentials.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Backend {
	case BackendSupabase:
		if c.Supabase.ConnectionString == "" && (c.Supabase.URL == "" || c.Supabase.ServiceKey == "") {
			return fmt.Errorf("%w: %s and %s must be set", ErrMissingCredentials, supabaseURLEnv, supabaseKeyEnv)
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%w: %s must be set", ErrMissingCredentials, databaseURLEnv)
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("%w: %s must be set", ErrMissingCredentials, sqlitePathEnv)
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: %s must be set", ErrMissingCredentials, mongoURIEnv)
		}
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: BackendSupabase,
		SQLite:  SQLiteConfig{Path: defaultSQLitePath},
		Mongo:   MongoConfig{Database: defaultMongoDB, Collection: "articles"},
		Pipeline: PipelineConfig{
			RetentionDays: 7,
			FeedDelay:     time.Second,
			Workers:       1,
			ListLimit:     defaultListLimit,
			HTTPTimeout:   defaultHTTPTimeout,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Feeds: DefaultFeeds(),
	}
}

// DefaultFeeds returns the built-in feed list in processing order.
func DefaultFeeds() []FeedConfig {
	return []FeedConfig{
		{"GoogleNews_World", "https://news.google.com/rss?hl=en-US&gl=US&ceid=US:en&topic=w"},
		{"BBC_News_World", "http://feeds.bbci.co.uk/news/world/rss.xml"},
		{"TOI_World", "https://timesofindia.indiatimes.com/rssfeeds/296589292.cms"},
		{"TOI_Top_Stories", "http://timesofindia.indiatimes.com/rssfeedstopstories.cms"},
		{"TOI_Most_Recent", "http://timesofindia.indiatimes.com/rssfeedmostrecent.cms"},
		{"TOI_India", "http://timesofindia.indiatimes.com/rssfeeds/-2128936835.cms"},
		{"TOI_Pune", "http://timesofindia.indiatimes.com/rssfeeds/-2128821991.cms"},
		{"PIB_Mumbai_Economy", "https://pib.gov.in/RssMain.aspx?ModId=3&Lang=1&Regid=3"},
		{"PIB_Mumbai_Infrastructure", "https://pib.gov.in/RssMain.aspx?ModId=14&Lang=1&Regid=3"},
		{"Hindustan_Times_Business", "https://www.hindustantimes.com/feeds/rss/business/rssfeed.xml"},
		{"Hindustan_Times_Pune", "https://www.hindustantimes.com/feeds/rss/cities/pune-news/rssfeed.xml"},
		{"Hindustan_Times_Education", "https://www.hindustantimes.com/feeds/rss/education/rssfeed.xml"},
		{"Hindustan_Times_Employment", "https://www.hindustantimes.com/feeds/rss/education/employment-news/rssfeed.xml"},
		{"Hindustan_Times_Infographic_Economy", "https://www.hindustantimes.com/feeds/rss/infographic/economy/rssfeed.xml"},
		{"Hindustan_Times_Infographic_Industry", "https://www.hindustantimes.com/feeds/rss/infographic/industry/rssfeed.xml"},
		{"Hindustan_Times_Infographic_Markets", "https://www.hindustantimes.com/feeds/rss/infographic/markets/rssfeed.xml"},
		{"Hindustan_Times_Infographic_Money", "https://www.hindustantimes.com/feeds/rss/infographic/money/rssfeed.xml"},
		{"Hindustan_Times_Infographic_Technology", "https://www.hindustantimes.com/feeds/rss/infographic/technology/rssfeed.xml"},
		{"Hindustan_Times_Top_News", "https://www.hindustantimes.com/feeds/rss/top-news/rssfeed.xml"},
	}
}
