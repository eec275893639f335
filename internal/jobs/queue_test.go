package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJob is a controllable job for queue tests.
type fakeJob struct {
	name   string
	result string
	err    error
	panics bool
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Run(ctx context.Context) (string, error) {
	if j.panics {
		panic("something went badly wrong")
	}
	return j.result, j.err
}

// waitForTerminal polls a handle until it leaves pending/running.
func waitForTerminal(t *testing.T, h *Handle) (Status, string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		status, result := h.Status()
		if status == StatusSuccess || status == StatusFailure {
			return status, result
		}
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal status", h.JobName)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestQueueRunsJobToSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 4)
	q.Start(ctx)

	handle := q.Enqueue(&fakeJob{name: "ok_job", result: "All done."})
	require.NotEmpty(t, handle.ID)
	assert.Equal(t, "ok_job", handle.JobName)

	status, result := waitForTerminal(t, handle)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, "All done.", result)
}

func TestQueueRecordsFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 4)
	q.Start(ctx)

	handle := q.Enqueue(&fakeJob{name: "bad_job", err: errors.New("db down")})

	status, result := waitForTerminal(t, handle)
	assert.Equal(t, StatusFailure, status)
	// The underlying error is logged, never surfaced to pollers.
	assert.Equal(t, "an error occurred", result)
}

func TestQueueRecoversFromPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 4)
	q.Start(ctx)

	handle := q.Enqueue(&fakeJob{name: "panicking_job", panics: true})

	status, _ := waitForTerminal(t, handle)
	assert.Equal(t, StatusFailure, status)

	// The worker survived the panic and keeps serving jobs.
	next := q.Enqueue(&fakeJob{name: "ok_job", result: "still alive"})
	status, result := waitForTerminal(t, next)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, "still alive", result)
}

func TestQueueRejectsWhenSaturated(t *testing.T) {
	// No workers started and zero buffer: every enqueue is rejected.
	q := NewQueue(1, 0)

	handle := q.Enqueue(&fakeJob{name: "doomed_job"})
	status, result := handle.Status()
	assert.Equal(t, StatusFailure, status)
	assert.Equal(t, "job queue is full", result)
}

func TestQueueLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 4)
	q.Start(ctx)

	handle := q.Enqueue(&fakeJob{name: "ok_job", result: "done"})

	found, ok := q.Lookup(handle.ID)
	require.True(t, ok)
	assert.Same(t, handle, found)

	_, ok = q.Lookup("no-such-id")
	assert.False(t, ok)
}

func TestSchedulerEnqueuesOnTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 4)
	q.Start(ctx)

	s := NewScheduler(q)
	assert.Error(t, s.Schedule("not a cron spec", &fakeJob{name: "never"}))
	assert.NoError(t, s.Schedule("0 8 * * *", &fakeJob{name: "daily"}))
}
