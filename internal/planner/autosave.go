package planner

import (
	"sync"
	"time"
)

// DefaultAutosaveDelay is the quiet period before a draft is written.
const DefaultAutosaveDelay = 3 * time.Second

// Autosaver debounces session snapshots: every Notify cancels the pending
// write and schedules a new one, so a burst of changes produces a single write
// carrying the last snapshot. The very first snapshot observed is only
// recorded as the baseline and never written.
type Autosaver struct {
	mu      sync.Mutex
	sched   Scheduler
	delay   time.Duration
	save    func(Session)
	pending Timer
	latest  Session
	dirty   bool
	seen    bool
	closed  bool
	gen     uint64
}

// NewAutosaver returns an Autosaver that calls save after delay of quiet.
func NewAutosaver(sched Scheduler, delay time.Duration, save func(Session)) *Autosaver {
	if sched == nil {
		sched = SystemScheduler
	}
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{sched: sched, delay: delay, save: save}
}

// Notify records s as the newest snapshot and restarts the debounce timer.
func (a *Autosaver) Notify(s Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if !a.seen {
		a.seen = true
		return
	}
	a.stopLocked()
	a.latest = Session{State: s.State.Clone(), Step: s.Step}
	a.dirty = true
	a.gen++
	gen := a.gen
	a.pending = a.sched.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Autosaver) stopLocked() {
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}

// fire runs under the lock so that Cancel and Close wait for an in-flight
// write to finish.
func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || gen != a.gen || !a.dirty {
		return
	}
	a.pending = nil
	a.dirty = false
	a.save(a.latest)
}

// Flush writes the pending snapshot now, if any.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.dirty {
		return
	}
	a.stopLocked()
	a.gen++
	a.dirty = false
	a.save(a.latest)
}

// Cancel drops the pending write without writing it.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.gen++
	a.dirty = false
}

// Pending reports whether a write is scheduled.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Close cancels the pending write; no write happens afterwards.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.closed = true
	a.dirty = false
}
