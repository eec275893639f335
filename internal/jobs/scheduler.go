package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler fires recurring jobs on cron schedules by enqueuing them on the
// shared queue, so scheduled and on-demand jobs run through the same workers.
type Scheduler struct {
	cron  *cron.Cron
	queue *Queue
}

// NewScheduler creates a scheduler feeding the given queue.
func NewScheduler(queue *Queue) *Scheduler {
	return &Scheduler{cron: cron.New(), queue: queue}
}

// Schedule registers a job under a standard five-field cron expression.
func (s *Scheduler) Schedule(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.queue.Enqueue(job)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for %s: %w", spec, job.Name(), err)
	}
	return nil
}

// Start begins firing scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule; queued and running jobs finish normally.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
