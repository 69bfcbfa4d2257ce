package sched

import (
	"sort"
	"time"
)

// Manual is a virtual-time scheduler for tests. Nothing runs until the test
// calls Flush or Advance, and tasks run on the caller's goroutine.
type Manual struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	ran     bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.ran {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Post queues fn at the current virtual time.
func (m *Manual) Post(fn func()) {
	m.schedule(0, fn)
}

// After queues fn at now+d.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	return m.schedule(d, fn)
}

func (m *Manual) schedule(d time.Duration, fn func()) *manualTask {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Pending returns the number of tasks that have neither run nor been stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.ran {
			n++
		}
	}
	return n
}

// Flush runs every task due at the current virtual time, including tasks
// those tasks post.
func (m *Manual) Flush() {
	m.Advance(0)
}

// Advance moves virtual time forward by d, running due tasks in time order.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		if next.due > m.now {
			m.now = next.due
		}
		next.ran = true
		next.fn()
	}
	m.now = target
	m.compact()
}

// RunUntilIdle advances time until no task is pending or limit elapses.
func (m *Manual) RunUntilIdle(limit time.Duration) {
	deadline := m.now + limit
	for m.Pending() > 0 && m.now < deadline {
		next := m.next(deadline)
		if next == nil {
			break
		}
		m.Advance(next.due - m.now)
	}
}

func (m *Manual) next(target time.Duration) *manualTask {
	var candidates []*manualTask
	for _, t := range m.tasks {
		if !t.stopped && !t.ran && t.due <= target {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due != candidates[j].due {
			return candidates[i].due < candidates[j].due
		}
		return candidates[i].seq < candidates[j].seq
	})
	return candidates[0]
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped && !t.ran {
			live = append(live, t)
		}
	}
	m.tasks = live
}
