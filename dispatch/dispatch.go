package dispatch

import (
	"sync"

	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"
)

// Task is a deferred unit of work enqueued by a recording operation.
type Task func()

// Queue is an ordered task queue drained by a single worker goroutine.
// Tasks execute exactly once, in submission order, and are never reordered.
// Enqueue never blocks the caller; the queue is unbounded.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []Task
	closed bool

	pending atomic.Int64
	done    chan struct{}
}

// NewQueue creates a queue and starts its worker.
func NewQueue() *Queue {
	q := &Queue{
		done: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.worker()
	return q
}

// Enqueue appends a task to the queue and returns immediately. Tasks
// enqueued after Shutdown are dropped.
func (q *Queue) Enqueue(task Task) {
	if task == nil {
		return
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		log.Warn().Msg("Task enqueued after queue shutdown, dropping")
		return
	}
	q.tasks = append(q.tasks, task)
	q.pending.Inc()
	q.cond.Signal()
	q.mu.Unlock()
}

// DrainSync blocks until every task enqueued before the call has executed.
// Tasks enqueued concurrently with or after the call are not waited for.
func (q *Queue) DrainSync() {
	barrier := make(chan struct{})

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.tasks = append(q.tasks, func() { close(barrier) })
	q.pending.Inc()
	q.cond.Signal()
	q.mu.Unlock()

	<-barrier
}

// Pending returns the number of tasks waiting for or under execution.
func (q *Queue) Pending() int64 {
	return q.pending.Load()
}

// Shutdown stops the worker after all previously enqueued tasks have run.
// Safe to call more than once; subsequent calls wait for the worker to exit.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Signal()
	}
	q.mu.Unlock()

	<-q.done
}

// worker executes queued tasks one at a time, preserving submission order.
func (q *Queue) worker() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.run(task)
		q.pending.Dec()
	}
}

// run executes a single task, containing panics so one bad task cannot kill
// the worker and stall every later write.
func (q *Queue) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Queued task panicked")
		}
	}()
	task()
}

var (
	defaultOnce  sync.Once
	defaultQueue *Queue
)

// Default returns the shared per-process queue, creating it on first use.
// All metric façades record through this queue unless one is injected.
func Default() *Queue {
	defaultOnce.Do(func() {
		defaultQueue = NewQueue()
	})
	return defaultQueue
}
