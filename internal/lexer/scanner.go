// Package lexer provides the byte-level cursor the pattern parser scans
// over: a minimal readChar/peekChar/Position triad trimmed to what a
// single-pass, no-lookahead-beyond-one-byte grammar needs. The grammar here
// is byte-oriented rather than word-oriented, so there is no
// word/number/string classification in this package — that belongs to the
// parser, which interprets bytes differently depending on whether it is
// inside a range set, an escape, or plain literal text.
package lexer

// Scanner walks a pattern string one byte at a time, tracking the current
// position for error reporting. AtEnd() is true once position has moved
// past the last byte; Ch() is only meaningful while !AtEnd().
type Scanner struct {
	input    string
	position int
}

// New returns a Scanner positioned at the first byte of input.
func New(input string) *Scanner {
	return &Scanner{input: input}
}

// Ch returns the byte currently under the cursor, or 0 at end of input.
func (s *Scanner) Ch() byte {
	if s.AtEnd() {
		return 0
	}
	return s.input[s.position]
}

// Offset returns the current byte offset into the source pattern — used to
// tag error fragments.
func (s *Scanner) Offset() int { return s.position }

// AtEnd reports whether the cursor has consumed the entire input.
func (s *Scanner) AtEnd() bool { return s.position >= len(s.input) }

// Peek returns the byte after the cursor without consuming it, or 0 at end.
func (s *Scanner) Peek() byte {
	if s.position+1 >= len(s.input) {
		return 0
	}
	return s.input[s.position+1]
}

// PeekAt returns the byte offset bytes ahead of the cursor (0 = Ch()), or 0
// past the end.
func (s *Scanner) PeekAt(offset int) byte {
	i := s.position + offset
	if i < 0 || i >= len(s.input) {
		return 0
	}
	return s.input[i]
}

// Advance consumes the current byte and moves the cursor forward one
// position. It is a no-op once AtEnd.
func (s *Scanner) Advance() {
	if s.AtEnd() {
		return
	}
	s.position++
}

// Len returns the total length of the scanned input, for bounds checks
// against limits.MaxPatternLength performed by the caller.
func (s *Scanner) Len() int { return len(s.input) }

// Slice returns the raw input bytes between two offsets previously obtained
// from Offset, as a string. Used to recover the text of a label or number
// span once its end has been located.
func (s *Scanner) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.input) {
		end = len(s.input)
	}
	if start >= end {
		return ""
	}
	return s.input[start:end]
}
