package errtrace

// Code is the closed set of compile-time error classifications a Fragment
// may carry. Kept small and closed so callers switch on it exhaustively
// rather than pattern-matching message text.
type Code string

const (
	// InvalidSyntax covers every lexer/parser grammar violation: unclosed
	// delimiters, bad escapes, malformed ranges, undeclared references, and
	// so on.
	InvalidSyntax Code = "invalid_syntax"

	// TooMuchNesting is raised when a subsequence would exceed
	// limits.MaxNestingDepth.
	TooMuchNesting Code = "too_much_nesting"

	// OutputTooLarge is raised by the linker when a factory's computed
	// upper bound on generated output exceeds limits.MaxOutputSize.
	OutputTooLarge Code = "output_too_large"

	// UnresolvedReference is raised when a reference's name does not
	// resolve to any declared sub-factory. The parser already rejects this
	// at parse time; the linker re-checks defensively.
	UnresolvedReference Code = "unresolved_reference"
)

// String satisfies fmt.Stringer.
func (c Code) String() string { return string(c) }
