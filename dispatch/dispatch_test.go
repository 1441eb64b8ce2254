package dispatch

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon-project/sdk/logging"
)

func TestMain(m *testing.M) {
	// Keep panic-recovery and shutdown warnings out of test output.
	if err := logging.Configure(logging.Config{Level: "disabled"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestQueuePreservesSubmissionOrder(t *testing.T) {
	q := NewQueue()
	defer q.Shutdown()

	// Only the worker appends, so no locking is needed here.
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Enqueue(func() { got = append(got, i) })
	}
	q.DrainSync()

	require.Len(t, got, 100)
	for i, v := range got {
		require.Equal(t, i, v, "task executed out of order")
	}
}

func TestDrainSyncObservesPriorTasks(t *testing.T) {
	q := NewQueue()
	defer q.Shutdown()

	counter := 0
	for i := 0; i < 50; i++ {
		q.Enqueue(func() { counter++ })
	}
	q.DrainSync()

	assert.Equal(t, 50, counter)
	assert.Zero(t, q.Pending())
}

func TestConcurrentEnqueueLosesNothing(t *testing.T) {
	q := NewQueue()
	defer q.Shutdown()

	const workers = 10
	const perWorker = 100

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				q.Enqueue(func() { counter++ })
			}
		}()
	}
	wg.Wait()
	q.DrainSync()

	assert.Equal(t, workers*perWorker, counter)
}

func TestPanickingTaskDoesNotStallWorker(t *testing.T) {
	q := NewQueue()
	defer q.Shutdown()

	ran := false
	q.Enqueue(func() { panic("boom") })
	q.Enqueue(func() { ran = true })
	q.DrainSync()

	assert.True(t, ran, "worker should survive a panicking task")
}

func TestShutdown(t *testing.T) {
	q := NewQueue()

	counter := 0
	for i := 0; i < 10; i++ {
		q.Enqueue(func() { counter++ })
	}
	q.Shutdown()

	assert.Equal(t, 10, counter, "shutdown should run previously queued tasks")

	// Idempotent, and later operations are safe no-ops.
	q.Shutdown()
	q.Enqueue(func() { counter++ })
	q.DrainSync()
	assert.Equal(t, 10, counter, "tasks enqueued after shutdown are dropped")
}

func TestNilTaskIgnored(t *testing.T) {
	q := NewQueue()
	defer q.Shutdown()

	q.Enqueue(nil)
	q.DrainSync()
	assert.Zero(t, q.Pending())
}

func TestDefaultQueueIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
