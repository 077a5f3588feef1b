package parser

import "github.com/nanofuzz/nanofuzz/internal/errtrace"

// decodeEscape consumes a leading '\\' (already known to be at the cursor)
// plus the escape body, returning the single resulting byte. Unknown escape
// letters fall back to literal — "\\X" means the byte 'X' — so authors never
// need to double-escape punctuation that happens not to be special.
func (p *parser) decodeEscape() (byte, bool) {
	start := p.sc.Offset()
	p.sc.Advance() // consume '\\'
	if p.sc.AtEnd() {
		p.fail(errtrace.InvalidSyntax, start, "dangling '\\' at end of pattern")
		return 0, false
	}
	c := p.sc.Ch()
	p.sc.Advance()

	switch c {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	case 'a':
		return '\a', true
	case 's':
		return ' ', true
	case 'x':
		return p.decodeHexByte(start)
	default:
		return c, true
	}
}

func (p *parser) decodeHexByte(start int) (byte, bool) {
	hi, ok := hexDigit(p.sc.Ch())
	if !ok {
		p.fail(errtrace.InvalidSyntax, start, "'\\x' requires two hex digits")
		return 0, false
	}
	p.sc.Advance()
	lo, ok := hexDigit(p.sc.Ch())
	if !ok {
		p.fail(errtrace.InvalidSyntax, start, "'\\x' requires two hex digits")
		return 0, false
	}
	p.sc.Advance()
	return hi<<4 | lo, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// decodeRangeToken decodes one endpoint inside a "[...]" range set. Beyond
// the plain escapes decodeEscape understands, range tokens also accept
// "\dDDD" (decimal) and "\oOOO" (octal) byte values, since range bounds are
// often easier to write numerically than as control escapes.
func (p *parser) decodeRangeToken() (byte, bool) {
	if p.sc.Ch() != '\\' {
		c := p.sc.Ch()
		p.sc.Advance()
		return c, true
	}

	start := p.sc.Offset()
	switch p.sc.Peek() {
	case 'd':
		p.sc.Advance()
		p.sc.Advance()
		return p.decodeRadixByte(start, 10, 3)
	case 'o':
		p.sc.Advance()
		p.sc.Advance()
		return p.decodeRadixByte(start, 8, 3)
	default:
		return p.decodeEscape()
	}
}

func (p *parser) decodeRadixByte(start, radix, maxDigits int) (byte, bool) {
	value := 0
	digits := 0
	for digits < maxDigits {
		c := p.sc.Ch()
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		default:
			d = -1
		}
		if d < 0 || d >= radix {
			break
		}
		value = value*radix + d
		digits++
		p.sc.Advance()
	}
	if digits == 0 || value > 255 {
		p.fail(errtrace.InvalidSyntax, start, "range byte value out of range")
		return 0, false
	}
	return byte(value), true
}
