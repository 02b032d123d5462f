package scheduler

// run drives the dispatch loop until shutdown. Pending jobs are held in a
// FIFO queue and handed to workers one at a time, so at most workers jobs
// are in flight.
func (s *Scheduler) run() {
	var pending []Job
	for {
		if len(pending) == 0 {
			select {
			case <-s.stopCh:
				s.finish()
				return
			case job := <-s.submitCh:
				pending = append(pending, job)
			}
			continue
		}
		select {
		case <-s.stopCh:
			s.finish()
			return
		case job := <-s.submitCh:
			pending = append(pending, job)
		case s.workCh <- pending[0]:
			pending = pending[1:]
		}
	}
}

// finish releases the workers and marks the scheduler done.
func (s *Scheduler) finish() {
	close(s.workCh)
	close(s.doneCh)
}
