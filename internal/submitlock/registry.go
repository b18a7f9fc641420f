package submitlock

import (
	"strings"
	"sync"
	"time"
)

const pruneThreshold = 1024

// StatusLog is a StatusSurface that keeps warnings until drained.
type StatusLog struct {
	mu   sync.Mutex
	msgs []string
}

func (l *StatusLog) AppendWarning(msg string) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

// Drain returns the collected warnings joined by two spaces and clears them.
func (l *StatusLog) Drain() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := strings.Join(l.msgs, "  ")
	l.msgs = nil
	return out
}

type entry struct {
	guard  *Guard
	status *StatusLog
}

// Registry holds one guard per submitter key.
type Registry struct {
	mu      sync.Mutex
	delay   time.Duration
	opts    []Option
	entries map[string]*entry
}

func NewRegistry(delay time.Duration, opts ...Option) *Registry {
	return &Registry{delay: delay, opts: opts, entries: make(map[string]*entry)}
}

// Attempt runs AttemptSubmit on key's guard. On denial the warning text is
// returned alongside the decision. r.mu stays held until the guard is locked
// so a concurrent prune cannot drop the guard between lookup and attempt.
func (r *Registry) Attempt(key string) (Decision, string) {
	r.mu.Lock()
	e := r.entryLocked(key)
	d := e.guard.AttemptSubmit()
	r.mu.Unlock()
	if d == Denied {
		return d, e.status.Drain()
	}
	return d, ""
}

// Reset unlocks key's guard, if any.
func (r *Registry) Reset(key string) {
	r.mu.Lock()
	e := r.entries[key]
	r.mu.Unlock()
	if e != nil {
		e.guard.Reset()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// entryLocked returns key's entry, creating it if needed. Caller holds r.mu.
func (r *Registry) entryLocked(key string) *entry {
	if e, ok := r.entries[key]; ok {
		return e
	}
	if len(r.entries) >= pruneThreshold {
		r.pruneLocked()
	}
	status := &StatusLog{}
	e := &entry{guard: New(r.delay, status, r.opts...), status: status}
	r.entries[key] = e
	return e
}

// pruneLocked forgets unlocked guards. Caller holds r.mu.
func (r *Registry) pruneLocked() {
	for k, e := range r.entries {
		if !e.guard.Locked() {
			delete(r.entries, k)
		}
	}
}
