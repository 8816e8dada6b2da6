package planner

import "time"

// Timer is a scheduled callback that can be cancelled. Stop reports whether
// the callback was still pending.
type Timer = interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the runtime timers.
var SystemScheduler Scheduler = systemScheduler{}
