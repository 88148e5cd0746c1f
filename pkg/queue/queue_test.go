package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var echoCalls atomic.Int32

type echoJob struct {
	Val string
}

func (j *echoJob) Handle() error {
	echoCalls.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	return errors.New("always fails")
}

func init() {
	queue.StartWorkers(context.Background(), 2)

	queue.Register("*queue_test.echoJob", func() queue.Job { return &echoJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchAndProcess(t *testing.T) {
	before := echoCalls.Load()
	require.NoError(t, queue.Dispatch(&echoJob{Val: "hello"}))

	deadline := time.After(2 * time.Second)
	for echoCalls.Load() == before {
		select {
		case <-deadline:
			t.Fatal("job was never processed")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestFailedJobIsRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	require.NoError(t, queue.Dispatch(&failJob{}))

	// One attempt plus backoff.
	time.Sleep(2 * time.Second)
	assert.NotEmpty(t, queue.FailedJobs())
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&echoJob{Val: "c"}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
