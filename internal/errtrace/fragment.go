package errtrace

import "fmt"

// Fragment is a single compile-time diagnostic. It captures what went wrong,
// how deeply nested the parser was when it noticed, and where in the source
// pattern the trouble starts.
//
// Fragments are immutable once recorded — Trace.Add is the only way to
// produce one, and nothing mutates it afterward.
type Fragment struct {
	code    Code
	depth   int
	offset  int
	message string
}

// maxMessageLen caps a fragment's message so one pathological error string
// can't dominate a trace.
const maxMessageLen = 512

func newFragment(code Code, depth, offset int, message string) Fragment {
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen]
	}
	return Fragment{code: code, depth: depth, offset: offset, message: message}
}

// Code returns the fragment's error classification.
func (f Fragment) Code() Code { return f.code }

// Depth returns the subsequence nesting depth active when the fragment was recorded.
func (f Fragment) Depth() int { return f.depth }

// Offset returns the byte offset into the source pattern the fragment refers to.
func (f Fragment) Offset() int { return f.offset }

// Message returns the human-readable description.
func (f Fragment) Message() string { return f.message }

// String renders a single-line representation suitable for CLI output.
func (f Fragment) String() string {
	return fmt.Sprintf("%s at offset %d (depth %d): %s", f.code, f.offset, f.depth, f.message)
}
