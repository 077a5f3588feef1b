package parser

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/limits"
)

// parseRangeSet parses the body of a "[...]" construct. The leading '[' is
// known to be at the cursor; it consumes through the matching ']'.
func (p *parser) parseRangeSet() (pattern.RangeSet, bool) {
	start := p.sc.Offset()
	p.sc.Advance() // consume '['

	negate := false
	if p.sc.Ch() == '^' {
		negate = true
		p.sc.Advance()
	}

	var ranges []pattern.SubRange
	for {
		if p.sc.AtEnd() {
			p.fail(errtrace.InvalidSyntax, start, "unclosed '['")
			return pattern.RangeSet{}, false
		}
		if p.sc.Ch() == ']' {
			break
		}
		if len(ranges) > 0 {
			if p.sc.Ch() != ',' {
				p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "range items must be separated by ','")
				return pattern.RangeSet{}, false
			}
			p.sc.Advance()
		}

		lo, ok := p.decodeRangeToken()
		if !ok {
			return pattern.RangeSet{}, false
		}
		hi := lo
		if p.sc.Ch() == '-' {
			p.sc.Advance()
			hi, ok = p.decodeRangeToken()
			if !ok {
				return pattern.RangeSet{}, false
			}
		}
		if hi < lo {
			p.fail(errtrace.InvalidSyntax, start, "range endpoints must be in ascending order")
			return pattern.RangeSet{}, false
		}

		if len(ranges) >= limits.MaxRangeSubRanges {
			p.fail(errtrace.InvalidSyntax, start, "range set exceeds maximum sub-range count")
			return pattern.RangeSet{}, false
		}
		ranges = append(ranges, pattern.SubRange{Lo: lo, Hi: hi})
	}
	p.sc.Advance() // consume ']'

	if len(ranges) == 0 {
		p.fail(errtrace.InvalidSyntax, start, "empty range set")
		return pattern.RangeSet{}, false
	}
	if pattern.Overlaps(ranges) {
		p.fail(errtrace.InvalidSyntax, start, "overlapping sub-ranges in range set")
		return pattern.RangeSet{}, false
	}

	return pattern.NewRangeSet(ranges, negate), true
}
