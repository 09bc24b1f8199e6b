package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// Handler processes one job. workerID is stable for the lifetime of a worker.
type Handler[T any] func(ctx context.Context, workerID int, job T) error

// Summary aggregates the outcome of a Run
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int // jobs never started because ctx was done
}

// Manager distributes jobs over a bounded set of workers.
// Each worker waits delay after every job, failed ones included.
type Manager[T any] struct {
	workerCount int
	delay       time.Duration
	name        string
}

// NewManager creates a new manager. workerCount below 1 means one worker.
func NewManager[T any](name string, workerCount int, delay time.Duration) *Manager[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	if delay < 0 {
		delay = 0
	}
	return &Manager[T]{
		workerCount: workerCount,
		delay:       delay,
		name:        name,
	}
}

// Run hands jobs to workers in order and blocks until all are done or ctx is cancelled.
// With one worker jobs run strictly in order.
func (m *Manager[T]) Run(ctx context.Context, jobs []T, handle Handler[T]) (Summary, error) {
	jobChan := make(chan T, len(jobs))
	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	type result struct {
		workerID int
		started  bool
		err      error
	}
	resultsChan := make(chan result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < m.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobChan {
				if ctx.Err() != nil {
					resultsChan <- result{workerID: workerID}
					continue
				}
				err := handle(ctx, workerID, job)
				resultsChan <- result{workerID: workerID, started: true, err: err}
				m.pause(ctx)
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var summary Summary
	for res := range resultsChan {
		switch {
		case !res.started:
			summary.Skipped++
		case res.err != nil:
			summary.Failed++
			log.Printf("%s worker %d: %v", m.name, res.workerID, res.err)
		default:
			summary.Succeeded++
		}
	}

	log.Printf("%s: completed %d, failed %d, skipped %d (total: %d)",
		m.name, summary.Succeeded, summary.Failed, summary.Skipped, len(jobs))
	return summary, ctx.Err()
}

// pause sleeps for the configured delay or until ctx is done
func (m *Manager[T]) pause(ctx context.Context) {
	if m.delay == 0 {
		return
	}
	timer := time.NewTimer(m.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
