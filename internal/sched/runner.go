// internal/sched/runner.go
package sched

import (
	"context"
	"time"
)

// Run dispatches tasks against the wall clock until ctx is cancelled.
// One goroutine per node. No overlap between ticks.
func (s *Scheduler) Run(ctx context.Context) error {
	start := time.Now().Add(-s.now)

	for {
		due, ok := s.nextDue()
		if !ok {
			<-ctx.Done()
			return ctx.Err()
		}

		if wait := time.Until(start.Add(due)); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		s.dispatch(due, time.Since(start))
	}
}
