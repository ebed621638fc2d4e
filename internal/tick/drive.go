package tick

import (
	"context"
	"time"
)

// Drive advances s against the wall clock for hosts without a loop of
// their own. It sleeps until the next deadline, advances to now() and calls
// step whenever callbacks ran. Drive returns nil once no task is pending or
// step returns false, and ctx.Err() when ctx ends first.
func Drive(ctx context.Context, s *Scheduler, now func() time.Time, step func() bool) error {
	if now == nil {
		now = time.Now
	}
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		next, ok := s.Next()
		if !ok {
			return nil
		}
		timer.Reset(max(next.Sub(now()), 0))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if s.Advance(now()) > 0 && step != nil && !step() {
			return nil
		}
	}
}
