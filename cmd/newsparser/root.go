package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mccia-news/pkg/config"
	"mccia-news/pkg/db"
	"mccia-news/pkg/logging"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:          "newsparser",
	Short:        "Ingest business news feeds, keep relevant articles and draft social posts",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $NEWSPARSER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	rootCmd.AddCommand(runCmd, purgeCmd, listCmd, replicateCmd, classifyCmd)
}

// loadConfig reads .env, the config file and the environment, then sets up logging.
// With validate set the configured backend must have credentials.
// The returned closer flushes the log file.
func loadConfig(validate bool) (config.Config, io.Closer, error) {
	config.LoadDotEnv(envFile)
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return config.Config{}, nil, err
		}
	}
	return cfg, logging.Setup(cfg.Log), nil
}

// openStore connects the given backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, backend config.Backend) (db.ArticleStore, func(), error) {
	switch backend {
	case config.BackendSupabase:
		client := db.NewSupabaseClient(db.SupabaseConfig{
			ConnectionString: cfg.Supabase.ConnectionString,
			SupabaseURL:      cfg.Supabase.URL,
			SupabaseKey:      cfg.Supabase.ServiceKey,
			Password:         cfg.Supabase.DBPassword,
		})
		if err := client.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect supabase: %w", err)
		}
		store, err := client.Store()
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		client := db.NewPostgresClient(db.PostgresConfig{DSN: cfg.Postgres.DSN})
		if err := client.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.EnsureSchema(ctx, client, db.DialectPostgres); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return db.NewSQLStore(client, db.DialectPostgres), func() { _ = client.Close() }, nil

	case config.BackendSQLite:
		client := db.NewSQLiteClient(cfg.SQLite.Path)
		if err := client.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect sqlite: %w", err)
		}
		if err := db.EnsureSchema(ctx, client, db.DialectSQLite); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return db.NewSQLStore(client, db.DialectSQLite), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client := db.NewMongoClient(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := client.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		return client, func() { _ = client.Close(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}
