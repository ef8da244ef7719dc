package sched

// Stats is a point-in-time snapshot of scheduler state.
type Stats struct {
	Queued    int
	Active    int
	Completed int64
	Closed    bool
}

// Stats reports current queue and worker occupancy.
// Values are sampled independently and may be mutually inconsistent
// under concurrent load; they are for observability, not control flow.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	return Stats{
		Queued:    len(s.jobs),
		Active:    int(s.active.Load()),
		Completed: s.completed.Load(),
		Closed:    closed,
	}
}
