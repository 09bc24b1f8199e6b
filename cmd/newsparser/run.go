package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mccia-news/pkg/config"
	"mccia-news/pkg/content"
	"mccia-news/pkg/db"
	"mccia-news/pkg/feed"
	"mccia-news/pkg/httpclient"
	"mccia-news/pkg/pipeline"
	"mccia-news/pkg/retention"
)

var (
	runEvery   time.Duration
	runWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Purge expired articles, then fetch and process every feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logCloser, err := loadConfig(true)
		if err != nil {
			return err
		}
		defer logCloser.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, release, err := openStore(ctx, cfg, cfg.Backend)
		if err != nil {
			return err
		}
		defer release()

		if cmd.Flags().Changed("workers") {
			cfg.Pipeline.Workers = runWorkers
		}
		p := newPipeline(cfg, store)

		if runEvery <= 0 {
			_, err := p.Run(ctx)
			return err
		}
		return runEveryInterval(ctx, p, runEvery)
	},
}

func init() {
	runCmd.Flags().DurationVar(&runEvery, "every", 0, "repeat the run on this interval until interrupted (0 runs once)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 1, "number of feeds processed concurrently")
}

func newPipeline(cfg config.Config, store db.ArticleStore) *pipeline.Pipeline {
	return pipeline.New(pipeline.Deps{
		Store:     store,
		Source:    feed.NewRSSSource(httpclient.NewClient(httpclient.FeedClient, cfg.Pipeline.HTTPTimeout)),
		Extractor: content.NewReadabilityExtractor(httpclient.NewClient(httpclient.BrowserClient, cfg.Pipeline.HTTPTimeout)),
		Retention: retention.NewManager(store),
	}, pipelineOptions(cfg))
}

// pipelineOptions maps config onto pipeline options. A zero feed delay is left for pipeline.New to default.
func pipelineOptions(cfg config.Config) pipeline.Options {
	feeds := make([]pipeline.Feed, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, pipeline.Feed{Name: f.Name, URL: f.URL})
	}
	return pipeline.Options{
		Feeds:         feeds,
		RetentionDays: cfg.Pipeline.RetentionDays,
		FeedDelay:     cfg.Pipeline.FeedDelay,
		Workers:       cfg.Pipeline.Workers,
	}
}

// runEveryInterval runs the pipeline now and then on every tick. Runs never overlap.
func runEveryInterval(ctx context.Context, p *pipeline.Pipeline, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Printf("Scheduler: next run in %s", every)

		select {
		case <-ctx.Done():
			log.Printf("Scheduler: stopping")
			return nil
		case <-ticker.C:
		}
	}
}
