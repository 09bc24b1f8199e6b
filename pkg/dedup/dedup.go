package dedup

import (
	"context"
	"log"
)

// Checker reports whether an article URL is already stored
type Checker interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// Gate filters out URLs that were already processed
type Gate struct {
	checker Checker
}

// NewGate creates a gate backed by checker
func NewGate(checker Checker) *Gate {
	return &Gate{checker: checker}
}

// IsProcessed reports whether url is already in the store.
// A store fault is logged and reported as not processed.
func (g *Gate) IsProcessed(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	exists, err := g.checker.Exists(ctx, url)
	if err != nil {
		log.Printf("Dedup: failed to check %s, treating as new: %v", url, err)
		return false
	}
	return exists
}
