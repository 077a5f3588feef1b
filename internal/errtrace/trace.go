// Package errtrace accumulates compile-time diagnostics for one pattern
// compile attempt: a single-writer, append-only trace. The compiler never
// touches a Trace from more than one goroutine, so no locking is needed
// here — compilation has exactly one stage-owner at a time.
package errtrace

import (
	"fmt"

	"github.com/nanofuzz/nanofuzz/limits"
)

// Trace is an ordered, capped list of diagnostic Fragments produced by a
// single compile attempt. Once the owning compile attempt ends, the Trace is
// discarded together with whatever factory it was building.
type Trace struct {
	fragments []Fragment
}

// New returns an empty Trace ready to receive fragments.
func New() *Trace {
	return &Trace{fragments: make([]Fragment, 0, 4)}
}

// Add records a fragment unless the trace has already reached
// limits.MaxErrorFragments, in which case it is dropped silently.
func (t *Trace) Add(code Code, depth, offset int, message string) {
	if len(t.fragments) >= limits.MaxErrorFragments {
		return
	}
	t.fragments = append(t.fragments, newFragment(code, depth, offset, message))
}

// Fragments returns the recorded fragments in insertion order.
func (t *Trace) Fragments() []Fragment {
	out := make([]Fragment, len(t.fragments))
	copy(out, t.fragments)
	return out
}

// Empty reports whether no fragment was ever recorded.
func (t *Trace) Empty() bool { return len(t.fragments) == 0 }

// Len returns the number of recorded fragments.
func (t *Trace) Len() int { return len(t.fragments) }

// Error satisfies the standard error interface so a *Trace can be wrapped
// directly into a CompileError.
func (t *Trace) Error() string {
	if t.Empty() {
		return "no errors"
	}
	s := t.fragments[0].String()
	if len(t.fragments) > 1 {
		s += fmt.Sprintf(" (+%d more)", len(t.fragments)-1)
	}
	return s
}
