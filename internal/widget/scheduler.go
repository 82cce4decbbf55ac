package widget

import "time"

// Task is a handle to a single scheduled callback. Cancel is safe to call any number
// of times. Cancel alone cannot stop a callback that is already mid-flight, so the
// widget additionally guards every continuation behind its own state flags.
type Task interface {
	Cancel()
}

// Scheduler runs a callback once after a delay and hands back a cancelable Task.
// The widget drives every timer it owns (typewriter steps, navigation delays,
// response auto-dismissal) through this interface so tests can substitute a manual
// clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

type timerScheduler struct{}

// NewScheduler returns a Scheduler backed by the runtime's timers.
func NewScheduler() Scheduler {
	return timerScheduler{}
}

type timerTask struct {
	t *time.Timer
}

func (t timerTask) Cancel() {
	t.t.Stop()
}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return timerTask{t: time.AfterFunc(d, fn)}
}
