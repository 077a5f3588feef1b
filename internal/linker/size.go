package linker

import (
	"fmt"

	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/limits"
)

// maxOutputSize computes a conservative upper bound on how many bytes a
// program could ever emit in one generation: for every emitting block, its
// own unit size times its repetition's MaxCount, times the product of every
// enclosing Sub block's repetition MaxCount. Alternation arms are summed as
// if every arm could fire in the same generation — not tight, but safe,
// since the VM only ever takes one arm per encounter.
func maxOutputSize(blocks []pattern.Block, subFactories map[string]*Factory, trace *errtrace.Trace) (int64, bool) {
	// Products are kept in float64 so deeply nested repetition ceilings
	// cannot wrap around; every value up to limits.MaxOutputSize is exact.
	var total float64
	multiplier := []float64{1}
	top := func() float64 { return multiplier[len(multiplier)-1] }

	for _, b := range blocks {
		switch b.Kind {
		case pattern.KindSub:
			multiplier = append(multiplier, top()*float64(b.Rep.MaxCount()))
		case pattern.KindRet:
			if len(multiplier) > 1 {
				multiplier = multiplier[:len(multiplier)-1]
			}
		case pattern.KindString:
			total += float64(len(b.Data)) * float64(b.Rep.MaxCount()) * top()
		case pattern.KindRange:
			total += float64(b.Rep.MaxCount()) * top()
		case pattern.KindReference:
			total += float64(referenceContribution(b, subFactories)) * float64(b.Rep.MaxCount()) * top()
		}

		if total > limits.MaxOutputSize {
			trace.Add(errtrace.OutputTooLarge, 0, 0, "factory's maximum possible output exceeds the hard cap")
			return limits.MaxOutputSize + 1, false
		}
	}

	return int64(total), true
}

// referenceContribution returns how many bytes one firing of a reference
// block could emit, independent of its own repetition.
func referenceContribution(b pattern.Block, subFactories map[string]*Factory) int64 {
	switch b.Ref.Kind {
	case pattern.RefPaste:
		if child, ok := subFactories[b.Ref.Name]; ok {
			return child.MaxOutputSize
		}
		return 0
	case pattern.RefLength:
		return lengthFieldWidth(b.Ref.LenOpts)
	case pattern.RefShuffle:
		// A reshuffle re-runs the sub-generator but emits nothing at its
		// own position; its cost is already counted once in the child
		// factory's own allocation, not the parent's output budget.
		return 0
	default:
		return 0
	}
}

// lengthFieldWidth returns the number of bytes a <#fmt[width]...> reference
// emits at the point it fires. Raw formats (g, l) always carry a mandatory
// byte width; binary ASCII (b) prints one character per bit of width; the
// remaining text formats fall back to their widest unpadded representation
// when width is 0.
func lengthFieldWidth(opts pattern.LenOpts) int64 {
	switch opts.Format {
	case pattern.LenBigEndian, pattern.LenLittleEndian:
		return int64(opts.Width)
	case pattern.LenBinary:
		return int64(opts.Width)
	case pattern.LenDecimal:
		if opts.Width > 0 {
			return int64(opts.Width)
		}
		return 20
	case pattern.LenHexLower, pattern.LenHexUpper:
		if opts.Width > 0 {
			return int64(opts.Width)
		}
		return 16
	case pattern.LenOctal:
		if opts.Width > 0 {
			return int64(opts.Width)
		}
		return 22
	default:
		return 0
	}
}

// checkReferences defends against any reference whose name does not resolve
// to a declared sub-factory. The parser already rejects this at parse time;
// this is a belt-and-braces check run once over the root program.
func checkReferences(blocks []pattern.Block, subFactories map[string]*Factory) error {
	for _, b := range blocks {
		if b.Kind != pattern.KindReference {
			continue
		}
		if _, ok := subFactories[b.Ref.Name]; !ok {
			return fmt.Errorf("reference to undeclared name %q", b.Ref.Name)
		}
	}
	return nil
}
