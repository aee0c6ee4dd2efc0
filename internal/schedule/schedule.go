// Package schedule runs one-shot callbacks keyed by purpose on game time.
//
// Scheduling a key that already has a pending task replaces it, so at most
// one respawn and one toast-hide can ever be outstanding.
package schedule

import (
	"sort"
	"time"
)

type Key string

type task struct {
	key Key
	due time.Duration
	seq uint64
	fn  func()
}

// Scheduler is not safe for concurrent use; it is advanced from the frame loop.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks map[Key]*task
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[Key]*task)}
}

// After schedules fn to run once d of game time has elapsed, superseding any
// pending task with the same key.
func (s *Scheduler) After(key Key, d time.Duration, fn func()) {
	s.seq++
	s.tasks[key] = &task{key: key, due: s.now + d, seq: s.seq, fn: fn}
}

// Cancel drops the pending task for key. It reports whether one was pending.
func (s *Scheduler) Cancel(key Key) bool {
	if _, ok := s.tasks[key]; !ok {
		return false
	}
	delete(s.tasks, key)
	return true
}

func (s *Scheduler) Pending(key Key) bool {
	_, ok := s.tasks[key]
	return ok
}

// Remaining returns the time left on key's task.
func (s *Scheduler) Remaining(key Key) (time.Duration, bool) {
	t, ok := s.tasks[key]
	if !ok {
		return 0, false
	}
	return t.due - s.now, true
}

func (s *Scheduler) Now() time.Duration { return s.now }

// Advance moves game time forward and fires due tasks in due order. A task
// scheduled by a firing callback runs in a later Advance unless it is already due.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt > 0 {
		s.now += dt
	}

	fired := 0
	for {
		due := s.dueTasks()
		if len(due) == 0 {
			return fired
		}
		for _, t := range due {
			// an earlier callback may have cancelled or replaced this one
			if cur, ok := s.tasks[t.key]; !ok || cur.seq != t.seq {
				continue
			}
			delete(s.tasks, t.key)
			t.fn()
			fired++
		}
	}
}

func (s *Scheduler) dueTasks() []*task {
	var due []*task
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due
}
