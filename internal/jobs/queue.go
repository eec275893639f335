// Package jobs runs the asynchronous background work: recurring reminder,
// report and cleanup jobs plus on-demand jobs triggered by user actions.
// Jobs are independent units that log and swallow their own failures,
// reporting a terminal status string instead of propagating errors.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Job is a single unit of background work. Run returns a human-readable
// status string on success. Partial failures inside a job (one recipient's
// mail bouncing) are logged and swallowed; only a total failure returns an
// error.
type Job interface {
	Name() string
	Run(ctx context.Context) (string, error)
}

// Status values a job handle moves through. Transitions are one-way:
// pending -> running -> success|failure.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Handle identifies an enqueued job and tracks its progress.
type Handle struct {
	ID      string `json:"id"`
	JobName string `json:"job"`

	mu     sync.Mutex
	status Status
	result string
}

// Status returns the handle's current status and result string.
func (h *Handle) Status() (Status, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.result
}

func (h *Handle) set(status Status, result string) {
	h.mu.Lock()
	h.status = status
	h.result = result
	h.mu.Unlock()
}

type task struct {
	job    Job
	handle *Handle
}

// Queue manages a pool of workers pulling jobs from a buffered channel.
// Enqueuing is fire-and-forget: callers get a handle back immediately and
// can poll it for a terminal status.
type Queue struct {
	size    int
	tasks   chan task
	mu      sync.RWMutex
	handles map[string]*Handle
}

// NewQueue creates a queue with the given worker count and buffer size.
func NewQueue(workers, buffer int) *Queue {
	return &Queue{
		size:    workers,
		tasks:   make(chan task, buffer),
		handles: make(map[string]*Handle),
	}
}

// Start launches the worker goroutines. They stop when ctx is cancelled;
// a job already running is not cancelled mid-flight.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.size; i++ {
		go q.worker(ctx, i)
	}
}

// Enqueue submits a job and returns its handle immediately.
func (q *Queue) Enqueue(job Job) *Handle {
	handle := &Handle{
		ID:      uuid.NewString(),
		JobName: job.Name(),
		status:  StatusPending,
	}

	q.mu.Lock()
	q.handles[handle.ID] = handle
	q.mu.Unlock()

	select {
	case q.tasks <- task{job: job, handle: handle}:
	default:
		// Queue saturated. Fail the handle rather than block the caller.
		log.Printf("job queue full, rejecting %s", job.Name())
		handle.set(StatusFailure, "job queue is full")
	}
	return handle
}

// Lookup returns the handle for a job ID, if known.
func (q *Queue) Lookup(id string) (*Handle, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	h, ok := q.handles[id]
	return h, ok
}

func (q *Queue) worker(ctx context.Context, id int) {
	log.Printf("job worker %d started", id)
	for {
		select {
		case t := <-q.tasks:
			q.execute(ctx, t)
		case <-ctx.Done():
			log.Printf("job worker %d shutting down", id)
			return
		}
	}
}

// execute runs one job, converting panics and errors into a failure status
// so callers of the scheduler never observe a stack trace.
func (q *Queue) execute(ctx context.Context, t task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("job %s panicked: %v", t.job.Name(), r)
			t.handle.set(StatusFailure, fmt.Sprintf("job panicked: %v", r))
		}
	}()

	t.handle.set(StatusRunning, "")
	log.Printf("job %s (%s) running", t.job.Name(), t.handle.ID)

	result, err := t.job.Run(ctx)
	if err != nil {
		log.Printf("job %s failed: %v", t.job.Name(), err)
		t.handle.set(StatusFailure, "an error occurred")
		return
	}
	log.Printf("job %s completed: %s", t.job.Name(), result)
	t.handle.set(StatusSuccess, result)
}
