package submitlock

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestRegistryGuardsPerKey(t *testing.T) {
	clock := &fakeClock{}
	r := NewRegistry(time.Second, WithAfterFunc(clock.AfterFunc))

	if d, _ := r.Attempt("alice"); d != Allowed {
		t.Fatalf("alice first: %v", d)
	}
	if d, _ := r.Attempt("bob"); d != Allowed {
		t.Fatalf("bob first: %v", d)
	}
	d, msg := r.Attempt("alice")
	if d != Denied || msg != WarningText {
		t.Fatalf("alice second: %v %q", d, msg)
	}

	r.Reset("alice")
	if d, _ := r.Attempt("alice"); d != Allowed {
		t.Fatalf("alice after reset: %v", d)
	}
	r.Reset("nobody")
}

func TestRegistryPrunesUnlockedGuards(t *testing.T) {
	clock := &fakeClock{}
	r := NewRegistry(time.Second, WithAfterFunc(clock.AfterFunc))
	for i := 0; i < pruneThreshold; i++ {
		r.Attempt("k" + strconv.Itoa(i))
	}
	for i := 0; i < pruneThreshold; i++ {
		clock.fire(i)
	}
	r.Attempt("fresh")
	if r.Len() != 1 {
		t.Fatalf("expected unlocked guards pruned, have %d", r.Len())
	}
}

func TestRegistryPruneKeepsGuardsBeingAttempted(t *testing.T) {
	for round := 0; round < 20; round++ {
		clock := &fakeClock{}
		r := NewRegistry(time.Second, WithAfterFunc(clock.AfterFunc))
		for i := 0; i < pruneThreshold-1; i++ {
			key := "k" + strconv.Itoa(i)
			r.Attempt(key)
			r.Reset(key)
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Attempt("alice")
		}()
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r.Attempt("new" + strconv.Itoa(i))
			}(i)
		}
		wg.Wait()

		if d, msg := r.Attempt("alice"); d != Denied || msg != WarningText {
			t.Fatalf("round %d: alice resubmitted within the delay: %v %q", round, d, msg)
		}
	}
}

func TestStatusLogDrain(t *testing.T) {
	var l StatusLog
	l.AppendWarning("one")
	l.AppendWarning("two")
	if got := l.Drain(); got != "one  two" {
		t.Fatalf("drain: %q", got)
	}
	if got := l.Drain(); got != "" {
		t.Fatalf("second drain should be empty: %q", got)
	}
}
