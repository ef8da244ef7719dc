// Package sched provides the multi-threaded task scheduler backing an
// async execution context.
//
// The scheduler runs submitted jobs on a fixed pool of worker
// goroutines. Submission never blocks the caller: a job is either
// queued immediately or rejected with a queue-full error. Each job
// receives the scheduler's base context, which is cancelled when the
// scheduler shuts down; jobs use it as their cooperative cancellation
// signal.
//
//	s, err := sched.New(sched.Config{Workers: 4})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	err = s.Submit(func(ctx context.Context) {
//	    select {
//	    case <-time.After(delay):
//	    case <-ctx.Done():
//	    }
//	})
//
// Close cancels the base context and blocks until every accepted job
// has finished. Jobs still queued at shutdown are not dropped; they run
// and observe the cancelled context at their first checkpoint.
package sched
