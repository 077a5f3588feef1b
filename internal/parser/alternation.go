package parser

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/limits"
)

// parseAlternationSeparator handles one "|" encountered in the current
// scope. The first "|" splices a BranchRoot before the most recently
// completed unit and opens *alt; every subsequent "|" in the same scope
// extends the same group. The leading '|' is known to be at the cursor.
func (p *parser) parseAlternationSeparator(alt **altState, lastUnitStart *int, justSawAltSep bool) bool {
	pos := p.sc.Offset()
	p.sc.Advance() // consume '|'

	if *alt == nil {
		if *lastUnitStart < 0 {
			p.fail(errtrace.InvalidSyntax, pos, "alternation has no preceding arm")
			return false
		}
		root := *lastUnitStart
		p.insertBlockAt(root, pattern.BranchRoot(nil))
		jmpIdx := len(p.blocks)
		p.blocks = append(p.blocks, pattern.BranchJmp())
		*alt = &altState{
			rootIndex:  root,
			steps:      []int{1, len(p.blocks) - root},
			jmpIndices: []int{jmpIdx},
			armStart:   len(p.blocks),
		}
	} else {
		a := *alt
		if justSawAltSep || a.armStart == len(p.blocks) {
			p.fail(errtrace.InvalidSyntax, pos, "alternation arm must not be empty")
			return false
		}
		if len(a.steps) >= limits.MaxAlternationArms {
			p.fail(errtrace.InvalidSyntax, pos, "alternation exceeds maximum arm count")
			return false
		}
		jmpIdx := len(p.blocks)
		p.blocks = append(p.blocks, pattern.BranchJmp())
		a.jmpIndices = append(a.jmpIndices, jmpIdx)
		a.armStart = len(p.blocks)
		a.steps = append(a.steps, a.armStart-a.rootIndex)
	}

	*lastUnitStart = -1
	return true
}
