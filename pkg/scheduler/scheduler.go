// Package scheduler runs queued tasks with a hard cap on how many execute
// at once. Results keep submission order regardless of completion order.
package scheduler

import (
	"context"
	"sync"
)

// Job is one queued task. Index is the caller's submission position and is
// passed back untouched through Outcome.
type Job struct {
	Index int
	Run   func(ctx context.Context) error
}

// Scheduler executes submitted jobs on a fixed set of workers.
type Scheduler struct {
	workers int

	submitCh chan Job
	workCh   chan Job
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler with the given worker count. Counts below one are
// raised to one.
func New(workers int) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		workers:  workers,
		submitCh: make(chan Job, workers*4),
		workCh:   make(chan Job),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	go s.run()
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Submit enqueues a job. Submissions after shutdown are dropped.
func (s *Scheduler) Submit(job Job) {
	select {
	case <-s.doneCh:
		return
	case s.submitCh <- job:
	}
}

// Shutdown stops the scheduler and waits for workers to finish. Jobs still
// queued are discarded; jobs already executing run to completion unless they
// honor the canceled scheduler context.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.cancel()
	})
	wait := make(chan struct{})
	go func() {
		<-s.doneCh
		s.wg.Wait()
		close(wait)
	}()
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
