// ABOUTME: Transient status line that fades out through a short chain of timed steps
// ABOUTME: A new message cancels every pending step of the previous one before scheduling

package status

import (
	"sync"
	"time"
)

// Default messages shown by the notebook.
const (
	MsgSaved       = "Saved"
	MsgNoteSaved   = "Note saved"
	MsgTabCleared  = "Tab cleared"
	MsgTabDeleted  = "Tab deleted"
	DefaultTimeout = 1600 * time.Millisecond

	minStep = 200 * time.Millisecond
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The real implementation wraps time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler returns a Scheduler backed by the runtime timers.
func RealScheduler() Scheduler { return realScheduler{} }

// Flasher shows a message, animates trailing dots and then clears the line.
type Flasher struct {
	Scheduler Scheduler
	Display   func(string)
	Enabled   func() bool

	mu      sync.Mutex
	pending []Timer
}

// New creates a Flasher writing to display using real timers.
func New(display func(string)) *Flasher {
	return &Flasher{Scheduler: RealScheduler(), Display: display}
}

// Steps returns the frames shown for msg, in order.
func Steps(msg string) []string {
	return []string{msg, msg + ".", msg + "..", msg + "...", ""}
}

// StepInterval is the delay between two frames for a total duration d.
func StepInterval(d time.Duration) time.Duration {
	return max(minStep, d/4)
}

// Show cancels anything still pending and schedules the frames for msg.
func (f *Flasher) Show(msg string, d time.Duration) {
	if f == nil || f.Display == nil {
		return
	}
	if f.Enabled != nil && !f.Enabled() {
		return
	}
	if d <= 0 {
		d = DefaultTimeout
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.cancelLocked()

	sched := f.Scheduler
	if sched == nil {
		sched = RealScheduler()
	}

	step := StepInterval(d)
	for i, frame := range Steps(msg) {
		frame := frame
		f.pending = append(f.pending, sched.AfterFunc(time.Duration(i)*step, func() {
			f.Display(frame)
		}))
	}
}

// Cancel stops every pending frame. Calling it twice is harmless.
func (f *Flasher) Cancel() {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked()
}

// Pending reports how many frames were scheduled and not yet cancelled.
func (f *Flasher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Flasher) cancelLocked() {
	for _, t := range f.pending {
		t.Stop()
	}
	f.pending = f.pending[:0]
}
