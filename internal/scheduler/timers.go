package scheduler

import (
	"sync"
	"time"
)

// Key identifies one candidate session.
type Key struct {
	InterviewID string
	Email       string
}

func (k Key) String() string { return k.InterviewID + "|" + k.Email }

type entry struct {
	timer *time.Timer
}

// Timers is a keyed registry of cancellable deferred completions. Arming a
// key that already has a timer replaces it.
type Timers struct {
	mu      sync.Mutex
	entries map[Key]*entry
	stopped bool
	now     func() time.Time
}

func NewTimers() *Timers {
	return &Timers{entries: make(map[Key]*entry), now: time.Now}
}

// Arm schedules fire to run once after delay. fire receives the fire time.
// A non-positive delay fires on the next tick.
func (t *Timers) Arm(key Key, delay time.Duration, fire func(key Key, at time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if old, ok := t.entries[key]; ok {
		old.timer.Stop()
	}
	if delay < 0 {
		delay = 0
	}

	e := &entry{}
	e.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		current, ok := t.entries[key]
		if !ok || current != e {
			// cancelled or re-armed while this callback was queued
			t.mu.Unlock()
			return
		}
		delete(t.entries, key)
		t.mu.Unlock()
		fire(key, t.now())
	})
	t.entries[key] = e
}

// Cancel stops the timer for key. It reports whether a pending timer existed.
func (t *Timers) Cancel(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(t.entries, key)
	return true
}

func (t *Timers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Stop cancels every timer; later Arm calls are ignored.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, e := range t.entries {
		e.timer.Stop()
		delete(t.entries, k)
	}
	t.stopped = true
}
