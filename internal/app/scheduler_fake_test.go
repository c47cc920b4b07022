package app_test

import (
	"sync"
	"time"

	"prepquiz-service/internal/app"
)

// manualScheduler is a virtual clock: callbacks only run inside Advance.
type manualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*manualTask
}

type manualTask struct {
	s       *manualScheduler
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualScheduler(start time.Time) *manualScheduler {
	return &manualScheduler{now: start}
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) app.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, at: s.now.Add(d), f: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (s *manualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending counts armed callbacks.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward, running due callbacks in deadline order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *manualTask
		for _, t := range s.tasks {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.f()
	}
}
