package nanofuzz

import (
	"errors"
	"fmt"

	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/vm"
)

// CompileError is returned from Open when a pattern fails to compile. It
// carries the full *errtrace.Trace the compiler accumulated; per spec.md
// §8's compile-determinism property, this outcome does not depend on the
// seed, so retrying without changing the pattern will fail identically.
type CompileError struct {
	Trace *errtrace.Trace
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("nanofuzz: compile error: %s", e.Trace.Error())
}

// ErrGenerationOverflow is the sentinel a Next failure wraps when the VM
// would have exceeded its context's output bound. It is recoverable: a
// non-deterministic pattern's next draw may fit, or the caller may reopen
// the context with a larger buffer tier (WithBufferTier).
var ErrGenerationOverflow = errors.New("nanofuzz: generation overflow")

// ErrReferenceUnresolved is the sentinel a Next failure wraps when a
// reference block named a sub-factory missing from the linked factory —
// a linker defect rather than anything the pattern author did wrong.
// spec.md §7 treats this the same as ErrGenerationOverflow for the current
// call (no output, context remains usable); callers that care which one
// occurred can still tell them apart with errors.Is.
var ErrReferenceUnresolved = errors.New("nanofuzz: reference unresolved")

// classifyGenerateError maps one internal/vm.Context.Generate failure onto
// the façade's documented sentinels. A recovered internal-invariant panic
// and a plain overflow both surface as ErrGenerationOverflow, matching
// spec.md §7's "Panic ... aborts the current next call with no output, the
// context remains usable" — from the caller's point of view both are just
// "this call produced nothing, try again."
func classifyGenerateError(err error) error {
	if errors.Is(err, vm.ErrUnresolvedReference) {
		return fmt.Errorf("%w: %v", ErrReferenceUnresolved, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationOverflow, err)
}
