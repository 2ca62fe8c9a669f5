package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/pkg/queue"
)

var processed atomic.Int32

type countJob struct {
	Delta int32 `json:"delta"`
}

func (j *countJob) Handle() error {
	processed.Add(j.Delta)
	return nil
}

type alwaysFailJob struct{}

func (j *alwaysFailJob) Handle() error { return errors.New("no luck") }

func TestDispatchAndProcess(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.Register("*queue_test.countJob", func() queue.Job { return &countJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 2)

	processed.Store(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Dispatch(&countJob{Delta: 1}))
	}

	require.Eventually(t, func() bool {
		return processed.Load() == 5
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.SetMaxRetry(2)
	defer queue.SetMaxRetry(3)
	queue.Register("*queue_test.alwaysFailJob", func() queue.Job { return &alwaysFailJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	before := len(queue.FailedJobs())
	require.NoError(t, queue.Dispatch(&alwaysFailJob{}))

	require.Eventually(t, func() bool {
		return len(queue.FailedJobs()) > before
	}, 5*time.Second, 50*time.Millisecond)

	failed := queue.FailedJobs()
	last := failed[len(failed)-1]
	assert.EqualError(t, last.Err, "no luck")
	assert.Equal(t, 2, last.Attempts)
}
