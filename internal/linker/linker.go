// Package linker implements the factory linker: it takes a parser.Result
// (an unlinked block list plus named sub-factory bodies) and produces an
// immutable Factory tree ready for the generator VM to execute. Linking
// builds every named sub-factory first (in declaration order, since a
// later declaration's body may reference an earlier one),
// then computes each factory's maximum possible output size so generation
// can reject a pathological pattern before ever allocating a buffer for it.
//
// Grounded on keurnel-assembler's two-pass codegen (collect, then emit):
// the teacher's assembler first walks instructions to build a label table,
// then emits bytes using it; this linker first builds every sub-factory
// (so paste references have a concrete byte budget to read), then sizes
// the parent using those already-known child budgets.
package linker

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/internal/parser"
	"github.com/nanofuzz/nanofuzz/limits"
)

// Factory is an immutable, linked fuzz-pattern program: a flat block array
// plus the named sub-factories it (and its siblings) may reference. Every
// Factory in one compiled tree shares the same SubFactories map, so a
// reference found inside any sub-factory's own body resolves the same way
// it would at the top level.
type Factory struct {
	Name          string
	Blocks        []pattern.Block
	MaxOutputSize int64
	SubFactories  map[string]*Factory

	// SubEnd maps each Sub block's index to its matching Ret block's index.
	// The VM does not read it: it skips a nullified (zero-count) subsequence
	// by walking the body with a nesting counter.
	SubEnd map[int]int
}

// Link compiles a parser.Result into a Factory tree.
func Link(res parser.Result) (*Factory, *errtrace.Trace, bool) {
	trace := errtrace.New()
	all := make(map[string]*Factory, len(res.SubOrder))

	if len(res.SubOrder) > limits.MaxSubFactories {
		trace.Add(errtrace.InvalidSyntax, 0, 0, "too many named sub-factories")
		return nil, trace, false
	}

	for _, name := range res.SubOrder {
		body := append([]pattern.Block(nil), res.SubBodies[name]...)
		body = append(body, pattern.End())
		f := &Factory{Name: name, Blocks: body, SubFactories: all, SubEnd: subEnds(body)}
		all[name] = f
	}

	// Size every sub-factory before the root, since a RefPaste inside the
	// root (or inside a later-declared sub-factory) needs the referenced
	// sub-factory's MaxOutputSize already computed.
	for _, name := range res.SubOrder {
		f := all[name]
		size, ok := maxOutputSize(f.Blocks, all, trace)
		if !ok {
			return nil, trace, false
		}
		f.MaxOutputSize = size
	}

	if err := checkReferences(res.Blocks, all); err != nil {
		trace.Add(errtrace.UnresolvedReference, 0, 0, err.Error())
		return nil, trace, false
	}

	root := &Factory{Blocks: res.Blocks, SubFactories: all, SubEnd: subEnds(res.Blocks)}
	size, ok := maxOutputSize(root.Blocks, all, trace)
	if !ok {
		return nil, trace, false
	}
	root.MaxOutputSize = size

	return root, trace, true
}
