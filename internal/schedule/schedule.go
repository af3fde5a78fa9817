// Package schedule provides cancellable delayed and periodic tasks, with a
// real clock and a manually advanced one for tests.
package schedule

import (
	"sync"
	"time"
)

// Task is a scheduled task.
type Task interface {
	// Cancel stops the task. Safe to call more than once.
	Cancel()
}

// Scheduler runs functions later.
type Scheduler interface {
	// After runs fn once after d.
	After(d time.Duration, fn func()) Task
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) Task
}

// Real schedules on the wall clock. Functions run on their own goroutines.
type Real struct{}

func (Real) After(d time.Duration, fn func()) Task {
	return timerTask{time.AfterFunc(d, fn)}
}

func (Real) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

type timerTask struct{ t *time.Timer }

func (t timerTask) Cancel() { t.t.Stop() }

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// Group tracks live tasks so they can all be cancelled on teardown. A task
// leaves the group when it is cancelled or, for After, once it has run.
type Group struct {
	mu    sync.Mutex
	tasks map[*groupTask]struct{}
}

type groupTask struct {
	g *Group

	mu        sync.Mutex
	inner     Task
	cancelled bool
}

// After schedules fn on s after d and tracks it.
func (g *Group) After(s Scheduler, d time.Duration, fn func()) Task {
	t := g.track()
	t.bind(s.After(d, func() {
		g.forget(t)
		fn()
	}))
	return t
}

// Every schedules fn on s every d and tracks it until cancelled.
func (g *Group) Every(s Scheduler, d time.Duration, fn func()) Task {
	t := g.track()
	t.bind(s.Every(d, fn))
	return t
}

// Len returns the number of tracked tasks.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

// CancelAll cancels every tracked task.
func (g *Group) CancelAll() {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()
	for t := range tasks {
		t.Cancel()
	}
}

func (g *Group) track() *groupTask {
	t := &groupTask{g: g}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tasks == nil {
		g.tasks = make(map[*groupTask]struct{})
	}
	g.tasks[t] = struct{}{}
	return t
}

func (g *Group) forget(t *groupTask) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tasks, t)
}

// bind attaches the scheduled task. A task cancelled before bind is
// cancelled on arrival.
func (t *groupTask) bind(inner Task) {
	t.mu.Lock()
	t.inner = inner
	cancelled := t.cancelled
	t.mu.Unlock()
	if cancelled {
		inner.Cancel()
	}
}

func (t *groupTask) Cancel() {
	t.g.forget(t)
	t.mu.Lock()
	t.cancelled = true
	inner := t.inner
	t.mu.Unlock()
	if inner != nil {
		inner.Cancel()
	}
}
