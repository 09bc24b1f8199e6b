package retention

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultDays is how long articles are kept when nothing else is configured
const DefaultDays = 7

// Purger deletes articles first seen before a cutoff
type Purger interface {
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Manager removes articles older than a retention window
type Manager struct {
	purger Purger
	now    func() time.Time
}

// NewManager creates a retention manager over purger
func NewManager(purger Purger) *Manager {
	return &Manager{purger: purger, now: time.Now}
}

// WithClock replaces the clock used to compute the cutoff
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// PurgeOlderThan deletes articles whose processed_at is more than days ago
func (m *Manager) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("retention days must not be negative, got %d", days)
	}
	cutoff := m.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	log.Printf("Retention: deleting articles processed before %s (%d days)", cutoff.Format(time.RFC3339), days)
	removed, err := m.purger.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge articles older than %d days: %w", days, err)
	}
	log.Printf("Retention: deleted %d old articles", removed)
	return removed, nil
}
