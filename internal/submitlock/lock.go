// Package submitlock guards against duplicate form submissions with a lock
// that releases itself after a fixed delay.
package submitlock

import (
	"sync"
	"time"
)

const (
	DefaultDelay = 10 * time.Second

	WarningText = "Already submitted, please wait..."
)

type Decision int

const (
	Allowed Decision = iota
	Denied
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// StatusSurface receives the warning shown when a submission is denied.
type StatusSurface interface {
	AppendWarning(msg string)
}

// Timer is the part of *time.Timer the guard needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Guard is one submit lock. The release fires after the delay whether or not
// a response to the submission ever arrives.
type Guard struct {
	mu        sync.Mutex
	submitted bool
	epoch     uint64
	release   Timer
	delay     time.Duration
	after     AfterFunc
	status    StatusSurface
}

type Option func(*Guard)

func WithAfterFunc(after AfterFunc) Option {
	return func(g *Guard) {
		if after != nil {
			g.after = after
		}
	}
}

func New(delay time.Duration, status StatusSurface, opts ...Option) *Guard {
	if delay <= 0 {
		delay = DefaultDelay
	}
	g := &Guard{delay: delay, after: realAfterFunc, status: status}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AttemptSubmit locks an unlocked guard and allows the submission, or leaves
// a locked guard locked, appends a warning to the status surface and denies.
func (g *Guard) AttemptSubmit() Decision {
	g.mu.Lock()
	if g.submitted {
		status := g.status
		g.mu.Unlock()
		if status != nil {
			status.AppendWarning(WarningText)
		}
		return Denied
	}
	g.submitted = true
	g.epoch++
	epoch := g.epoch
	after, delay := g.after, g.delay
	g.mu.Unlock()

	release := after(delay, func() { g.unlock(epoch) })
	g.mu.Lock()
	if g.epoch == epoch && g.submitted {
		g.release = release
	}
	g.mu.Unlock()
	return Allowed
}

// Locked reports whether a submission is currently held.
func (g *Guard) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitted
}

// Reset cancels a pending release and unlocks immediately.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.release != nil {
		g.release.Stop()
		g.release = nil
	}
	g.submitted = false
	g.epoch++
}

// unlock is the scheduled release. A release from before a Reset is stale.
func (g *Guard) unlock(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch {
		return
	}
	g.submitted = false
	g.release = nil
}
