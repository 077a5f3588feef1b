package parser

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/limits"
)

// parseSubsequence parses a "(...)" group: a Sub block, the nested scope's
// blocks, and the closing Ret block. The leading '(' is known to be at the
// cursor. On success p.lastSubIndex holds the Sub block's index so the
// caller can record it as this scope's current unit.
func (p *parser) parseSubsequence() bool {
	start := p.sc.Offset()
	p.sc.Advance() // consume '('

	p.depth++
	if p.depth > limits.MaxNestingDepth {
		p.fail(errtrace.TooMuchNesting, start, "subsequence nesting exceeds maximum depth")
		return false
	}

	nest := p.nestCounter
	p.nestCounter++
	subIdx := len(p.blocks)
	p.blocks = append(p.blocks, pattern.Sub(nest))

	if !p.parseScope(')') {
		return false
	}

	if p.sc.Ch() != ')' {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '('")
		return false
	}
	p.sc.Advance() // consume ')'
	p.depth--

	bodyLen := len(p.blocks) - (subIdx + 1)
	p.blocks = append(p.blocks, pattern.Ret(bodyLen))
	p.lastSubIndex = subIdx
	return true
}
