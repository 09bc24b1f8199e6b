package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SingleWorkerKeepsOrder(t *testing.T) {
	var order []string
	m := NewManager[string]("Test", 1, 0)

	summary, err := m.Run(context.Background(), []string{"a", "b", "c"}, func(ctx context.Context, workerID int, job string) error {
		order = append(order, job)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, Summary{Succeeded: 3}, summary)
}

func TestManager_CountsFailures(t *testing.T) {
	m := NewManager[int]("Test", 3, 0)

	summary, err := m.Run(context.Background(), []int{1, 2, 3, 4, 5, 6}, func(ctx context.Context, workerID int, job int) error {
		if job%2 == 0 {
			return errors.New("even")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Succeeded: 3, Failed: 3}, summary)
}

func TestManager_BoundsConcurrency(t *testing.T) {
	var running, peak int32
	m := NewManager[int]("Test", 2, 0)

	jobs := make([]int, 8)
	_, err := m.Run(context.Background(), jobs, func(ctx context.Context, workerID int, job int) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestManager_DelayAfterEveryJob(t *testing.T) {
	var mu sync.Mutex
	var starts []time.Time
	delay := 30 * time.Millisecond
	m := NewManager[int]("Test", 1, delay)

	_, err := m.Run(context.Background(), []int{1, 2, 3}, func(ctx context.Context, workerID int, job int) error {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		if job == 1 {
			return errors.New("failed feed still waits")
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, starts, 3)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), delay)
	}
}

func TestManager_CancelStopsBetweenJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager[int]("Test", 1, 0)

	var handled int
	summary, err := m.Run(ctx, []int{1, 2, 3, 4}, func(ctx context.Context, workerID int, job int) error {
		handled++
		if job == 2 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, handled)
	assert.Equal(t, Summary{Succeeded: 2, Skipped: 2}, summary)
}

func TestNewManager_ClampsWorkers(t *testing.T) {
	m := NewManager[int]("Test", 0, -time.Second)
	assert.Equal(t, 1, m.workerCount)
	assert.Zero(t, m.delay)
}
