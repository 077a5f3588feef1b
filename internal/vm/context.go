// Package vm implements the generator: the pseudo instruction pointer (PIP)
// loop that walks a linked factory's block array and writes bytes into a
// reusable output buffer. One Context drives one factory; paste, length, and
// reshuffle references reach into a reftable.Table of child Contexts, each
// of which is itself a Generator from the reftable package's point of view.
//
// Grounded on the teacher's codegen emit pass (architecture.Emitter walking
// a resolved instruction list and writing bytes to an output buffer one
// instruction at a time) — generalized here to a pointer that can also jump
// backward (subsequence repetition) and sideways (alternation dispatch),
// which a linear emitter never needs to do.
package vm

import (
	"fmt"

	"github.com/nanofuzz/nanofuzz/internal/linker"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/internal/prng"
	"github.com/nanofuzz/nanofuzz/internal/reftable"
	"github.com/nanofuzz/nanofuzz/limits"
)

// Context executes one factory's program. It is not safe for concurrent
// use: nanofuzz serializes generation per top-level handle (see
// internal/prefetch for how a background worker still gets parallelism).
type Context struct {
	factory *linker.Factory
	source  *prng.Source
	table   *reftable.Table

	buf    []byte
	maxOut int

	frames    []subFrame
	nullDepth int
}

// maxFrameDepth bounds the Sub/Ret frame stack one level past the parser's
// own nesting cap, as a last-resort guard against a linker defect rather
// than a limit a well-formed factory could ever reach.
const maxFrameDepth = limits.MaxNestingDepth + 1

type subFrame struct {
	howMany   int
	generated int
}

// New builds a Context for factory, drawing from the given shared PRNG
// source. tier bounds the reusable output buffer; if the factory's own
// MaxOutputSize is smaller, that tighter bound is used instead so a small
// pattern never holds a needlessly large buffer.
func New(factory *linker.Factory, source *prng.Source, tier limits.BufferTier) *Context {
	max := tier.Bytes()
	if factory.MaxOutputSize > 0 && int(factory.MaxOutputSize) < max {
		max = int(factory.MaxOutputSize)
	}
	c := &Context{
		factory: factory,
		source:  source,
		maxOut:  max,
		buf:     make([]byte, 0, max),
	}
	c.table = reftable.New(c.buildChild)
	return c
}

// buildChild constructs a nested Context for a named sub-factory reference,
// satisfying reftable.Factory without reftable needing to import this
// package.
func (c *Context) buildChild(name string) (reftable.Generator, error) {
	sub, ok := c.factory.SubFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedReference, name)
	}
	return New(sub, c.source, limits.Normal), nil
}

// Generate produces exactly one candidate run. The returned slice aliases
// the Context's internal buffer and is only valid until the next call to
// Generate or Close.
func (c *Context) Generate() ([]byte, error) {
	c.buf = c.buf[:0]
	c.frames = c.frames[:0]
	c.nullDepth = 0
	if err := c.run(); err != nil {
		return nil, err
	}
	return c.buf, nil
}

// Close releases this Context's reference table, tearing down every nested
// sub-generator Context it realized, depth-first.
func (c *Context) Close() {
	c.table.Close()
}

func (c *Context) overflow() error {
	c.buf = c.buf[:0]
	c.frames = c.frames[:0]
	c.nullDepth = 0
	return fmt.Errorf("%w: %d-byte bound", ErrOverflow, c.maxOut)
}

// drawCount resolves a Repetition into a concrete iteration count for this
// encounter, consuming exactly one PRNG draw when the count is variable.
func (c *Context) drawCount(rep pattern.Repetition) int {
	if rep.Single {
		return int(rep.Base)
	}
	return c.source.BoundedInt(int(rep.Base), int(rep.High))
}

func (c *Context) emit(data []byte) error {
	if len(c.buf)+len(data) > c.maxOut {
		return c.overflow()
	}
	c.buf = append(c.buf, data...)
	return nil
}
