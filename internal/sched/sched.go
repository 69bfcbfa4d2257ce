// Package sched provides the cooperative, single-threaded scheduler the table
// controller runs on. Every task runs on one logical thread; suspension is
// expressed by scheduling the remainder of a procedure with After.
package sched

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs tasks one at a time.
type Scheduler interface {
	// Post queues fn to run on the scheduler as soon as possible.
	Post(fn func())
	// After queues fn to run once d has elapsed.
	After(d time.Duration, fn func()) Timer
}

// Timer is a pending After task.
type Timer interface {
	// Stop prevents the task from running. It reports false if the task
	// already ran or was already stopped.
	Stop() bool
}

// Loop is the production scheduler: a single goroutine draining a task queue.
// The queue is unbounded so a running task can always post follow-ups.
type Loop struct {
	logger *zap.Logger
	notify chan struct{}

	mu      sync.Mutex
	queue   []func()
	stopped bool
}

// NewLoop creates an idle loop; call Run to start draining it.
func NewLoop(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		logger: logger,
		notify: make(chan struct{}, 1),
	}
}

// Run drains tasks until ctx is cancelled. It must be called exactly once.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()
	for {
		for {
			fn := l.pop()
			if fn == nil {
				break
			}
			l.run(fn)
			if ctx.Err() != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-l.notify:
		}
	}
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduler task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	fn()
}

// Post queues fn. Tasks posted after Run returned are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.logger.Debug("dropping task posted to stopped scheduler")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// After posts fn once d elapses.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.cancelled() {
				return
			}
			t.markFired()
			fn()
		})
	})
	return t
}

// loopTimer guards against the race where the OS timer already fired and the
// task sits in the queue when Stop is called.
type loopTimer struct {
	timer *time.Timer

	mu    sync.Mutex
	done  bool
	fired bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.fired {
		return false
	}
	t.done = true
	return true
}

func (t *loopTimer) cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *loopTimer) markFired() {
	t.mu.Lock()
	t.fired = true
	t.mu.Unlock()
}
