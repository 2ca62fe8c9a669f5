package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/pkg/workerpool"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.SubmitWait(func() {
			ran.Add(1)
			wg.Done()
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(20), ran.Load())
}

func TestPoolFullReturnsError(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	block := make(chan struct{})
	defer close(block)

	// Occupy the single worker, then fill the buffer (2*size = 2 slots).
	require.NoError(t, pool.Submit(func() { <-block }))
	for i := 0; i < 2; i++ {
		if err := pool.Submit(func() {}); err != nil {
			require.ErrorIs(t, err, workerpool.ErrPoolFull)
			return
		}
	}

	err := pool.Submit(func() {})
	assert.ErrorIs(t, err, workerpool.ErrPoolFull)
}

func TestPoolClosedAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()

	err := pool.Submit(func() {})
	assert.True(t, errors.Is(err, workerpool.ErrPoolClosed))
}

func TestPoolSurvivesPanickingTask(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.SubmitWait(func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
}
