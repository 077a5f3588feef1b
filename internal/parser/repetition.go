package parser

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
)

const maxRepeatValue = 65535

// parseRepetition parses the body of a "{...}" construct. The leading '{' is
// known to be at the cursor.
func (p *parser) parseRepetition() (pattern.Repetition, bool) {
	start := p.sc.Offset()
	p.sc.Advance() // consume '{'

	haveBase, base := p.readDigits()
	if p.failed {
		return pattern.Repetition{}, false
	}
	comma := false
	if p.sc.Ch() == ',' {
		comma = true
		p.sc.Advance()
	}
	haveHigh, high := p.readDigits()
	if p.failed {
		return pattern.Repetition{}, false
	}

	if p.sc.Ch() != '}' {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '{'")
		return pattern.Repetition{}, false
	}
	p.sc.Advance() // consume '}'

	if !comma {
		if !haveBase {
			p.fail(errtrace.InvalidSyntax, start, "'{}' requires a count")
			return pattern.Repetition{}, false
		}
		return pattern.Exactly(uint16(base)), true
	}

	lo := 0
	if haveBase {
		lo = base
	}
	hi := maxRepeatValue
	if haveHigh {
		hi = high
	}
	if lo > hi {
		p.fail(errtrace.InvalidSyntax, start, "repetition lower bound exceeds upper bound")
		return pattern.Repetition{}, false
	}
	return pattern.Range(uint16(lo), uint16(hi)), true
}

// readDigits reads zero or more decimal digits, returning false if none were
// present.
func (p *parser) readDigits() (bool, int) {
	start := p.sc.Offset()
	value := 0
	count := 0
	for p.sc.Ch() >= '0' && p.sc.Ch() <= '9' {
		value = value*10 + int(p.sc.Ch()-'0')
		count++
		p.sc.Advance()
		if value > maxRepeatValue {
			p.fail(errtrace.InvalidSyntax, start, "repetition value exceeds maximum")
			return false, 0
		}
	}
	return count > 0, value
}
