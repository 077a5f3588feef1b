package vm

import (
	"fmt"

	"github.com/nanofuzz/nanofuzz/internal/pattern"
)

// run walks c.factory.Blocks from the top with a pseudo instruction pointer
// (PIP), writing bytes into c.buf as it goes. It implements the block
// semantics of spec §4.5 directly: String/Range/Reference are emitting
// blocks, Sub/Ret open and close a repeated subsequence scope, and
// BranchRoot/BranchJmp implement alternation as a dispatch-then-skip pair.
//
// A violated internal invariant (PIP out of range, Ret with no open frame,
// frame stack overrun) is recovered here rather than left to crash the
// caller: run resets per-call state and returns an error, leaving the
// Context itself still usable for the next Generate call, matching the
// "Panic" error class's documented recovery contract.
func (c *Context) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.buf = c.buf[:0]
			c.frames = c.frames[:0]
			c.nullDepth = 0
			err = fmt.Errorf("%w: %v", ErrInvariant, r)
		}
	}()

	blocks := c.factory.Blocks
	pip := 0

	for {
		if pip < 0 || pip >= len(blocks) {
			panic(fmt.Sprintf("pip %d outside program of length %d", pip, len(blocks)))
		}
		b := blocks[pip]

		// Nullified mode: a zero-count Sub was just entered. Every block
		// except Sub/Ret is skipped with no side effect (no PRNG draw, no
		// emitted byte); Sub/Ret still run so the VM can find the specific
		// Ret that closes the nullifying Sub, even if the body contains
		// nested subsequences of its own.
		if c.nullDepth > 0 {
			switch b.Kind {
			case pattern.KindSub:
				c.nullDepth++
			case pattern.KindRet:
				c.nullDepth--
			case pattern.KindEnd:
				panic("reached End block while a subsequence was still nullified")
			}
			pip++
			continue
		}

		switch b.Kind {
		case pattern.KindString:
			iters := c.drawCount(b.Rep)
			for i := 0; i < iters; i++ {
				if err := c.emit(b.Data); err != nil {
					return err
				}
			}
			pip++

		case pattern.KindRange:
			iters := c.drawCount(b.Rep)
			if err := c.emitRange(b.Set, iters); err != nil {
				return err
			}
			pip++

		case pattern.KindSub:
			iters := c.drawCount(b.Rep)
			if iters == 0 {
				c.nullDepth = 1
				pip++
				continue
			}
			if len(c.frames) >= maxFrameDepth {
				panic("subsequence frame stack exceeded maximum nesting depth")
			}
			c.frames = append(c.frames, subFrame{howMany: iters})
			pip++

		case pattern.KindRet:
			if len(c.frames) == 0 {
				panic("Ret encountered with no open subsequence frame")
			}
			top := &c.frames[len(c.frames)-1]
			top.generated++
			if top.generated < top.howMany {
				pip -= b.BackOffset
			} else {
				c.frames = c.frames[:len(c.frames)-1]
				pip++
			}

		case pattern.KindBranchRoot:
			if len(b.Steps) == 0 {
				pip++
				break
			}
			idx := c.source.BoundedInt(0, len(b.Steps)-1)
			pip += b.Steps[idx]

		case pattern.KindBranchJmp:
			pip += b.ForwardOffset

		case pattern.KindReference:
			iters := c.drawCount(b.Rep)
			if err := c.emitReference(b.Ref, iters); err != nil {
				return err
			}
			pip++

		case pattern.KindEnd:
			return nil

		default:
			panic(fmt.Sprintf("unrecognized block kind %v", b.Kind))
		}
	}
}
