package scheduler

// worker consumes jobs from the work channel until it closes. Job errors are
// the submitter's concern; Collect captures them through its outcome
// channel.
func (s *Scheduler) worker() {
	defer s.wg.Done()
	for job := range s.workCh {
		if job.Run == nil {
			continue
		}
		_ = job.Run(s.ctx)
	}
}
