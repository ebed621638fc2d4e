// Package tick provides a cooperative, single-threaded timer wheel. The host
// owns the clock and calls Advance from its own loop; tasks never run on a
// goroutine of their own.
package tick

import (
	"container/heap"
	"time"
)

// Scheduler orders timed callbacks for a single owner. It is not safe for
// concurrent use.
type Scheduler struct {
	now   time.Time
	seq   uint64
	queue taskQueue
}

// Task is the cancellable handle returned by After and Every.
type Task struct {
	sched    *Scheduler
	deadline time.Time
	interval time.Duration
	seq      uint64
	index    int
	once     func()
	repeat   func() bool
	done     bool
}

// NewScheduler returns a scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now reports the time of the last Advance (or the start time).
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After runs fn once, delay after the current scheduler time.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	t := &Task{sched: s, deadline: s.now.Add(delay), once: fn}
	s.push(t)
	return t
}

// Every runs fn first after delay and then once per interval until fn
// returns false or the task is cancelled. Deadlines are computed from the
// previous deadline, not from the time fn ran, so a late Advance catches up
// tick by tick instead of drifting.
func (s *Scheduler) Every(delay, interval time.Duration, fn func() bool) *Task {
	if delay < 0 {
		delay = 0
	}
	if interval <= 0 {
		interval = time.Nanosecond
	}
	t := &Task{sched: s, deadline: s.now.Add(delay), interval: interval, repeat: fn}
	s.push(t)
	return t
}

// Advance moves the clock to now and runs every task due at or before it,
// earliest deadline first and in scheduling order for equal deadlines. It
// returns the number of callbacks run. Moving the clock backwards is ignored.
func (s *Scheduler) Advance(now time.Time) int {
	if now.Before(s.now) {
		now = s.now
	}
	ran := 0
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.deadline.After(now) {
			break
		}
		heap.Pop(&s.queue)
		if next.done {
			continue
		}
		s.now = next.deadline
		ran++
		if next.once != nil {
			next.done = true
			next.once()
			continue
		}
		if !next.repeat() {
			next.done = true
			continue
		}
		if next.done {
			continue
		}
		next.deadline = next.deadline.Add(next.interval)
		s.push(next)
	}
	s.now = now
	return ran
}

// Next reports the earliest pending deadline.
func (s *Scheduler) Next() (time.Time, bool) {
	for s.queue.Len() > 0 {
		if s.queue[0].done {
			heap.Pop(&s.queue)
			continue
		}
		return s.queue[0].deadline, true
	}
	return time.Time{}, false
}

// Pending reports how many live tasks are queued.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.done {
			n++
		}
	}
	return n
}

func (s *Scheduler) push(t *Task) {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
}

// Cancel stops the task. Calling it more than once, or after the task has
// finished, is harmless. A task cancelled by an earlier callback inside the
// same Advance does not run.
func (t *Task) Cancel() {
	if t == nil || t.done {
		return
	}
	t.done = true
	if t.index >= 0 && t.index < t.sched.queue.Len() && t.sched.queue[t.index] == t {
		heap.Remove(&t.sched.queue, t.index)
	}
}

// Active reports whether the task can still run.
func (t *Task) Active() bool {
	return t != nil && !t.done
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].seq < q[j].seq
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
