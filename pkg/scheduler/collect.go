package scheduler

import (
	"context"
	"time"
)

// Task is one unit of ordered work.
type Task func(ctx context.Context) error

// Outcome records one task's settlement.
type Outcome struct {
	Index int
	Err   error
}

// shutdownGrace bounds how long Collect waits for workers to exit after all
// outcomes have arrived.
const shutdownGrace = 2 * time.Second

// Collect runs tasks with at most limit executing concurrently and returns
// their outcomes in submission order. Every task settles before Collect
// returns; the error is the first failure in submission order, reported only
// after all tasks have finished, so one bad task cannot hide its siblings'
// results. Tasks receive the caller's ctx, not the scheduler's.
func Collect(ctx context.Context, limit int, tasks []Task) ([]Outcome, error) {
	outcomes := make([]Outcome, len(tasks))
	if len(tasks) == 0 {
		return outcomes, nil
	}
	s := New(limit)
	outcomeCh := make(chan Outcome, len(tasks))
	for index, task := range tasks {
		idx, fn := index, task
		s.Submit(Job{Index: idx, Run: func(context.Context) error {
			var err error
			if fn != nil {
				err = fn(ctx)
			}
			outcomeCh <- Outcome{Index: idx, Err: err}
			return err
		}})
	}
	for i := 0; i < len(tasks); i++ {
		outcome := <-outcomeCh
		outcomes[outcome.Index] = outcome
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	_ = s.Shutdown(shutdownCtx)
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			return outcomes, outcome.Err
		}
	}
	return outcomes, nil
}
