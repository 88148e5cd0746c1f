package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.SubmitWait(func() {
			ran.Add(1)
			wg.Done()
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(20), ran.Load())
}

func TestSubmitFailsFastWhenFull(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	release := make(chan struct{})
	// Occupy the single worker, then fill the queue buffer.
	require.NoError(t, p.Submit(func() { <-release }))
	for p.Submit(func() { <-release }) == nil {
	}

	err := p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolFull)
	close(release)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(2)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, p.SubmitWait(func() {}), ErrPoolClosed)
}

func TestShutdownWaitsForInFlight(t *testing.T) {
	p := New(2)

	var done atomic.Bool
	require.NoError(t, p.Submit(func() {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	}))

	p.Shutdown()
	assert.True(t, done.Load())
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	require.NoError(t, p.SubmitWait(func() { panic("boom") }))

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.SubmitWait(func() {
		ran.Store(true)
		wg.Done()
	}))
	wg.Wait()
	assert.True(t, ran.Load())
}
