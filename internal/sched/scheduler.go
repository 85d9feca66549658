// internal/sched/scheduler.go
package sched

import (
	"errors"
	"fmt"
	"time"
)

// Task is one periodically ticked unit of work.
// Tick runs to completion before any other task of the same scheduler is
// dispatched. There is no preemption and no ordering between tasks beyond
// their due times.
type Task struct {
	Name   string
	Period time.Duration
	Tick   func()
}

type entry struct {
	task  Task
	due   time.Duration
	ticks uint64
}

// Scheduler dispatches tasks on a logical clock measured from start.
// The same dispatch core serves real time (Run) and virtual time (Advance).
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	entries []*entry
	now     time.Duration
}

// New creates a scheduler. Every task first ticks at time zero.
func New(tasks ...Task) (*Scheduler, error) {
	s := &Scheduler{}
	for _, t := range tasks {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers a task. Tasks due at the same instant run in
// registration order. A task added later first ticks at the current time.
func (s *Scheduler) Add(t Task) error {
	if t.Name == "" {
		return errors.New("sched: task name required")
	}
	if t.Period <= 0 {
		return fmt.Errorf("sched: task %q: period must be > 0", t.Name)
	}
	if t.Tick == nil {
		return fmt.Errorf("sched: task %q: tick func required", t.Name)
	}
	for _, e := range s.entries {
		if e.task.Name == t.Name {
			return fmt.Errorf("sched: duplicate task %q", t.Name)
		}
	}
	s.entries = append(s.entries, &entry{task: t, due: s.now})
	return nil
}

// Now returns the logical time of the last dispatch (or Advance target).
func (s *Scheduler) Now() time.Duration { return s.now }

// Ticks returns how often the named task has been dispatched.
func (s *Scheduler) Ticks(name string) uint64 {
	for _, e := range s.entries {
		if e.task.Name == name {
			return e.ticks
		}
	}
	return 0
}

// Advance runs every dispatch due within the next d of logical time.
// It is the deterministic virtual clock used by tests and simulation.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		due, ok := s.nextDue()
		if !ok || due > target {
			break
		}
		s.dispatch(due, due)
	}
	s.now = target
}

// Step runs the next due group of tasks and returns its logical time.
func (s *Scheduler) Step() (time.Duration, bool) {
	due, ok := s.nextDue()
	if !ok {
		return 0, false
	}
	s.dispatch(due, due)
	return due, true
}

func (s *Scheduler) nextDue() (time.Duration, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}
	earliest := s.entries[0].due
	for _, e := range s.entries[1:] {
		if e.due < earliest {
			earliest = e.due
		}
	}
	return earliest, true
}

// dispatch ticks every task due at 'at'. 'elapsed' is the actual elapsed
// time; a task that fell more than one period behind is re-aligned to
// elapsed+period instead of bursting to catch up (delay-after-tick
// semantics).
func (s *Scheduler) dispatch(at, elapsed time.Duration) {
	s.now = at
	for _, e := range s.entries {
		if e.due != at {
			continue
		}
		e.task.Tick()
		e.ticks++
		e.due += e.task.Period
		if e.due <= elapsed {
			e.due = elapsed + e.task.Period
		}
	}
}
