// Package nanofuzz is the public façade over the pattern compiler and
// generator VM: Open compiles a fuzz-pattern string into a Context, Next
// draws one bounded random output from it, FreeOutput and Close release
// what Next and Open allocated, and Explain renders a human-readable
// description of what a compiled Context will produce.
//
// This mirrors the teacher's root-package-façade-over-internal-packages
// layout (the teacher's own cmd/cli wires internal/keurnel_asm the same
// way this package wires internal/parser, internal/linker and
// internal/vm), generalized from one CLI entry point to a library API any
// caller can Open directly.
package nanofuzz

import (
	"fmt"
	"io"

	"github.com/nanofuzz/nanofuzz/internal/linker"
	"github.com/nanofuzz/nanofuzz/internal/parser"
	"github.com/nanofuzz/nanofuzz/internal/prefetch"
	"github.com/nanofuzz/nanofuzz/internal/prng"
	"github.com/nanofuzz/nanofuzz/internal/vm"
	"github.com/nanofuzz/nanofuzz/limits"
)

// PrefetchMode selects how a Context's optional background buffer behaves
// once full. Oneshot fills the buffer once and stops; Refill keeps topping
// it up for as long as the Context runs. See internal/prefetch and
// spec.md §5.
type PrefetchMode = prefetch.Mode

const (
	Oneshot = prefetch.Oneshot
	Refill  = prefetch.Refill
)

// Option configures Open. The shape — a function closing over the value it
// mutates, applied in order over a zero-value default — follows the
// pack's own functional-options idiom (streamscrub.Scrubber's Option func
// in opal-lang-opal/runtime/streamscrub).
type Option func(*config)

type config struct {
	seeded       bool
	seed         uint64
	tier         limits.BufferTier
	prefetchSize int
	prefetchMode PrefetchMode
}

// WithSeed fixes a Context's PRNG to a deterministic seed, so repeated
// Opens of the same pattern with the same seed draw identical output
// sequences (spec.md §8, property 2). Without this option Open seeds from
// the OS's entropy source instead.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seeded = true
		c.seed = seed
	}
}

// WithBufferTier sizes a Context's reusable output buffer. The default is
// limits.Normal; a factory whose own computed MaxOutputSize is smaller
// always wins regardless of the requested tier, so a small pattern never
// holds a needlessly large buffer.
func WithBufferTier(tier limits.BufferTier) Option {
	return func(c *config) { c.tier = tier }
}

// WithPrefetch starts a background worker that keeps up to size outputs
// generated ahead of the caller, per spec.md §5. The default (no
// WithPrefetch option, or size <= 0) leaves prefetch disabled: Next runs
// the VM synchronously on the calling goroutine.
func WithPrefetch(size int, mode PrefetchMode) Option {
	return func(c *config) {
		c.prefetchSize = size
		c.prefetchMode = mode
	}
}

// Context is one compiled pattern bound to one PRNG stream and, optionally,
// one background prefetch worker. A Context is not safe for concurrent
// use: the compiled factory tree it wraps is immutable and freely
// shareable (linker.Factory's own doc comment covers this), but the PRNG
// stream and output buffer belong to this Context alone. A caller that
// wants N independent streams should Open N Contexts.
type Context struct {
	factory *linker.Factory
	exec    *vm.Context
	buffer  *prefetch.Buffer
	last    []byte
}

// Open compiles pattern and returns a ready-to-run Context. On any grammar
// violation it returns a *CompileError carrying the full diagnostic trace
// instead; per spec.md §8's compile-determinism property this outcome
// never depends on the seed, so there is no point retrying Open without
// first changing the pattern.
func Open(pattern string, opts ...Option) (*Context, error) {
	cfg := config{tier: limits.Normal}
	for _, opt := range opts {
		opt(&cfg)
	}

	res, trace, ok := parser.Parse(pattern)
	if !ok {
		return nil, &CompileError{Trace: trace}
	}
	factory, trace, ok := linker.Link(res)
	if !ok {
		return nil, &CompileError{Trace: trace}
	}

	source, err := newSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("nanofuzz: seeding PRNG: %w", err)
	}

	exec := vm.New(factory, source, cfg.tier)
	ctx := &Context{factory: factory, exec: exec}
	if cfg.prefetchSize > 0 {
		ctx.buffer = prefetch.New(exec, cfg.prefetchSize, cfg.prefetchMode)
	}
	return ctx, nil
}

func newSource(cfg config) (*prng.Source, error) {
	if cfg.seeded {
		return prng.New(cfg.seed), nil
	}
	return prng.NewFromOS()
}

// Next produces one output. A nil error with a zero-length slice is a
// valid, distinct result from failure (spec.md §4.5's output contract).
// Failure returns a nil slice and an error satisfying errors.Is against
// either ErrGenerationOverflow or ErrReferenceUnresolved; both are
// recoverable — the Context remains usable and Next may be called again.
func (c *Context) Next() ([]byte, error) {
	if c.buffer != nil {
		out, ok := c.buffer.Pop()
		if !ok {
			return nil, fmt.Errorf("%w: prefetch buffer exhausted", ErrGenerationOverflow)
		}
		c.last = out
		return out, nil
	}

	out, err := c.exec.Generate()
	if err != nil {
		return nil, classifyGenerateError(err)
	}
	// Generate's slice aliases the VM's reusable buffer; the next call
	// overwrites it, so the caller needs its own stable copy.
	cp := append([]byte{}, out...)
	c.last = cp
	return cp, nil
}

// FreeOutput releases output, a slice previously returned by Next. Go's
// garbage collector reclaims the backing array on its own, so this mostly
// exists for symmetry with spec.md §4.7's free_output; what it actually
// does is clear the Context's "most recent output" reference when output
// is the one Next most recently handed back, the same clear-before-any-
// further-use step spec.md §4.6 describes for an invalidated cache entry.
func (c *Context) FreeOutput(output []byte) {
	if len(c.last) > 0 && len(output) > 0 && &c.last[0] == &output[0] {
		c.last = nil
	}
}

// Close tears the context down: a running prefetch worker is stopped and
// joined first, then the generator's reference table is closed
// depth-first, releasing every sub-factory context it realized.
func (c *Context) Close() {
	if c.buffer != nil {
		c.buffer.Stop()
	}
	c.exec.Close()
}

// Explain writes a human-readable, deterministic description of the
// compiled factory to w, including a recursive description of every
// sub-factory it references. This is the canonical diagnostic for a
// successful compile (spec.md §4.7, §7); errtrace.Trace.Error is its
// counterpart for a failed one.
func (c *Context) Explain(w io.Writer) error {
	return explainFactory(w, "", c.factory, make(map[string]bool))
}
