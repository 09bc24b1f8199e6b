package replication

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"mccia-news/pkg/domain"
)

const (
	defaultBatchSize = 100
	defaultWorkers   = 5
)

// Source lists every article of a backend
type Source interface {
	ListAll(ctx context.Context) ([]domain.Article, error)
}

// Target receives copied articles
type Target interface {
	InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error)
}

// Config wires the replication dependencies.
type Config struct {
	Source    Source
	Target    Target
	BatchSize int
	Workers   int
}

// Result counts what a replication did
type Result struct {
	Processed int
	Inserted  int
}

// Replicator copies all articles from one store into another.
// Existing target rows are left untouched.
type Replicator struct {
	source    Source
	target    Target
	batchSize int
	workers   int
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Source == nil {
		return nil, errors.New("source store is required")
	}
	if cfg.Target == nil {
		return nil, errors.New("target store is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Replicator{
		source:    cfg.Source,
		target:    cfg.Target,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
	}, nil
}

// Replicate reads every source article and inserts the ones the target lacks.
// processed_at is preserved so retention behaves the same on both sides.
func (r *Replicator) Replicate(ctx context.Context) (Result, error) {
	articles, err := r.source.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read source articles: %w", err)
	}

	log.Printf("Replication: loaded %d articles, processing in batches of %d...", len(articles), r.batchSize)

	var inserted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for start := 0; start < len(articles); start += r.batchSize {
		end := min(start+r.batchSize, len(articles))
		batch := articles[start:end]
		g.Go(func() error {
			n, err := r.processBatch(gctx, batch)
			inserted.Add(int64(n))
			if err != nil {
				return fmt.Errorf("batch %d-%d: %w", start, end, err)
			}
			log.Printf("Replication: batch %d-%d inserted %d", start, end, n)
			return nil
		})
	}

	res := Result{Processed: len(articles)}
	err = g.Wait()
	res.Inserted = int(inserted.Load())
	if err != nil {
		return res, err
	}

	log.Printf("Replication complete: processed %d articles, inserted %d new articles", res.Processed, res.Inserted)
	return res, nil
}

func (r *Replicator) processBatch(ctx context.Context, batch []domain.Article) (int, error) {
	inserted := 0
	for i := range batch {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		ok, err := r.target.InsertIfAbsent(ctx, &batch[i])
		if err != nil {
			return inserted, fmt.Errorf("insert %s: %w", batch[i].URL, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
