package contact

import (
	"context"
	"sync"
)

// task is the single pending unit of work of a session: a delivery or a reset timer.
type task struct {
	attempt int
	// stop cancels the task. It reports true when the task's goroutine will never run.
	stop func() bool
}

// taskSet tracks at most one task per session and the goroutines behind them.
type taskSet struct {
	mu     sync.Mutex
	tasks  map[string]*task
	closed bool
	wg     sync.WaitGroup
}

func (ts *taskSet) init() {
	ts.tasks = make(map[string]*task)
}

// start registers t for a goroutine the caller is about to launch.
func (ts *taskSet) start(sessionID string, t *task) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed {
		return false
	}
	if old, ok := ts.tasks[sessionID]; ok {
		ts.stopLocked(old)
	}
	ts.tasks[sessionID] = t
	ts.wg.Add(1)
	return true
}

// replace swaps prev for next if prev is still current, calling arm to launch next.
func (ts *taskSet) replace(sessionID string, prev, next *task, arm func()) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed || ts.tasks[sessionID] != prev {
		return false
	}
	ts.wg.Add(1)
	arm()
	ts.tasks[sessionID] = next
	return true
}

// finish removes t if it is still the session's task and reports whether it was.
func (ts *taskSet) finish(sessionID string, t *task) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.tasks[sessionID] != t {
		return false
	}
	delete(ts.tasks, sessionID)
	return true
}

// done marks the end of a task goroutine.
func (ts *taskSet) done() {
	ts.wg.Done()
}

func (ts *taskSet) cancel(sessionID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if t, ok := ts.tasks[sessionID]; ok {
		delete(ts.tasks, sessionID)
		ts.stopLocked(t)
	}
}

// shutdown cancels everything and refuses new tasks. It returns how many were canceled.
func (ts *taskSet) shutdown() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.closed = true
	n := len(ts.tasks)
	for id, t := range ts.tasks {
		delete(ts.tasks, id)
		ts.stopLocked(t)
	}
	return n
}

func (ts *taskSet) stopLocked(t *task) {
	if t.stop() {
		ts.wg.Done()
	}
}

func (ts *taskSet) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		ts.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ts *taskSet) has(sessionID string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.tasks[sessionID]
	return ok
}

func (ts *taskSet) isClosed() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.closed
}

func (ts *taskSet) size() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tasks)
}
