package accrual

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name           string
		numTasks       int
		numWorkers     int
		expectedErrors int
	}{
		{
			name:       "Simple tasks",
			numTasks:   5,
			numWorkers: 2,
		},
		{
			name:           "Error in task",
			numTasks:       2,
			numWorkers:     2,
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := NewWorkerPool(tt.numWorkers)
			defer wp.Close()

			var mu sync.Mutex
			var taskExecutionCount int
			var errorCount int
			var wg sync.WaitGroup

			for i := 0; i < tt.numTasks; i++ {
				wg.Add(1)
				task := func(i int) func() error {
					return func() error {
						defer wg.Done()
						if i == tt.numTasks-1 && tt.expectedErrors > 0 {
							mu.Lock()
							errorCount++
							mu.Unlock()
							return assert.AnError
						}
						time.Sleep(20 * time.Millisecond)
						mu.Lock()
						taskExecutionCount++
						mu.Unlock()
						return nil
					}
				}(i)

				err := wp.AddTask(context.Background(), task)
				require.NoError(t, err, "failed to add task to pool")
			}

			wg.Wait()

			assert.Equal(t, tt.numTasks-tt.expectedErrors, taskExecutionCount, "number of executed tasks does not match")
			assert.Equal(t, tt.expectedErrors, errorCount, "number of errors does not match")
		})
	}
}

func TestWorkerPool_CanceledContext(t *testing.T) {
	wp := NewWorkerPool(1)
	defer wp.Close()

	release := make(chan struct{})
	require.NoError(t, wp.AddTask(context.Background(), func() error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var executed atomic.Bool
	err := wp.AddTask(ctx, func() error {
		executed.Store(true)
		return nil
	})
	close(release)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, executed.Load())
}

func TestWorkerPool_CloseWaits(t *testing.T) {
	wp := NewWorkerPool(2)
	var done atomic.Int32
	for i := 0; i < 2; i++ {
		require.NoError(t, wp.AddTask(context.Background(), func() error {
			time.Sleep(10 * time.Millisecond)
			done.Add(1)
			return nil
		}))
	}

	wp.Close()
	wp.Close()
	assert.Equal(t, int32(2), done.Load())
}
