package vm

import "errors"

// Sentinel errors the façade (package nanofuzz) classifies Generate's
// failures against with errors.Is, so it can report the taxonomy spec.md §7
// names (GenerationOverflow, ReferenceUnresolved) without this package
// needing to know about the façade's error types.
var (
	// ErrOverflow is returned when a generation run would exceed its
	// context's output bound.
	ErrOverflow = errors.New("generation exceeded output bound")

	// ErrUnresolvedReference is returned when a Reference block names a
	// sub-factory absent from the linked factory's SubFactories map. The
	// linker already rejects this at compile time; seeing it here means the
	// linker has a bug.
	ErrUnresolvedReference = errors.New("reference to unresolved sub-factory")

	// ErrInvariant is returned when run's top-level recover catches an
	// internal invariant violation (a malformed PIP, an empty frame stack
	// on Ret, and so on).
	ErrInvariant = errors.New("internal invariant violated")
)
