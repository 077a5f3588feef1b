package parser

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
)

// parseAngle parses a "<...>" construct: a declaration ("<$NAME>"), a paste
// reference ("<@NAME>"), a reshuffle reference ("<%NAME>"), or a length
// reference ("<#fmt[width][+add]:NAME>"). The leading '<' is known to be at
// the cursor. lastUnitStart is the enclosing scope's current unit, needed to
// validate and extract a declaration's preceding Sub/Ret pair.
//
// It returns (index, isUnit, ok). For references, index is the new
// reference block's index and isUnit is true. A declaration also returns
// isUnit true: consuming the preceding Sub/Ret pair leaves an implicit
// paste of the newly declared name in its place (see parseDeclaration),
// and that paste is itself a unit a following "{...}" or "|" can attach to.
func (p *parser) parseAngle(lastUnitStart int) (int, bool, bool) {
	start := p.sc.Offset()
	p.sc.Advance() // consume '<'

	if p.sc.AtEnd() {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '<'")
		return 0, false, false
	}

	switch p.sc.Ch() {
	case '$':
		p.sc.Advance()
		return p.parseDeclaration(start, lastUnitStart)
	case '@':
		p.sc.Advance()
		idx, ok := p.parseSimpleReference(start, pattern.RefPaste)
		return idx, true, ok
	case '%':
		p.sc.Advance()
		idx, ok := p.parseSimpleReference(start, pattern.RefShuffle)
		return idx, true, ok
	case '#':
		p.sc.Advance()
		idx, ok := p.parseLengthReference(start)
		return idx, true, ok
	default:
		p.fail(errtrace.InvalidSyntax, start, "expected '$', '@', '%' or '#' after '<'")
		return 0, false, false
	}
}

// readLabel reads up through (but not past) the next '>' or ':' and
// validates it as a label. It does not consume the terminator.
func (p *parser) readLabel(start int) (string, bool) {
	begin := p.sc.Offset()
	for !p.sc.AtEnd() && p.sc.Ch() != '>' && p.sc.Ch() != ':' {
		p.sc.Advance()
	}
	if p.sc.AtEnd() {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '<'")
		return "", false
	}
	name := p.sc.Slice(begin, p.sc.Offset())
	if !pattern.ValidLabel(name) {
		p.fail(errtrace.InvalidSyntax, start, "invalid label")
		return "", false
	}
	return name, true
}

// parseDeclaration parses "<$NAME>" after the "<$" has been consumed. It
// extracts the immediately preceding Sub/Ret pair out of the current
// stream as NAME's sub-factory body, then splices an implicit paste
// reference to NAME back into the stream at the same position. A
// declaration is therefore also a first use: "(AB){3}<$X>" behaves exactly
// like "<@X>" would if X had already been declared and generated once,
// which is what makes "(AB){3}<$X>-<@X><@X>" emit three copies of X's
// output (one at the declaration site, two from the explicit pastes) and
// not merely two.
func (p *parser) parseDeclaration(start, lastUnitStart int) (int, bool, bool) {
	name, ok := p.readLabel(start)
	if !ok {
		return 0, false, false
	}
	if p.sc.Ch() != '>' {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '<'")
		return 0, false, false
	}
	p.sc.Advance() // consume '>'

	if p.depth != 0 {
		p.fail(errtrace.InvalidSyntax, start, "declarations are only allowed at the top level")
		return 0, false, false
	}
	if p.declared[name] {
		p.fail(errtrace.InvalidSyntax, start, "duplicate declaration")
		return 0, false, false
	}
	if lastUnitStart < 0 || lastUnitStart >= len(p.blocks) || p.blocks[lastUnitStart].Kind != pattern.KindSub {
		p.fail(errtrace.InvalidSyntax, start, "declaration must immediately follow a subsequence")
		return 0, false, false
	}
	retIdx := len(p.blocks) - 1
	if p.blocks[retIdx].Kind != pattern.KindRet {
		p.fail(errtrace.InvalidSyntax, start, "declaration must immediately follow a subsequence")
		return 0, false, false
	}

	body := append([]pattern.Block(nil), p.blocks[lastUnitStart:retIdx+1]...)
	p.blocks = p.blocks[:lastUnitStart]
	p.declared[name] = true
	p.subBodies[name] = body
	p.subOrder = append(p.subOrder, name)

	ref := pattern.Reference{Name: name, Hash: pattern.HashLabel(name), Kind: pattern.RefPaste}
	p.blocks = append(p.blocks, pattern.ReferenceBlock(ref))
	return len(p.blocks) - 1, true, true
}

func (p *parser) parseSimpleReference(start int, kind pattern.ReferenceKind) (int, bool) {
	name, ok := p.readLabel(start)
	if !ok {
		return 0, false
	}
	if p.sc.Ch() != '>' {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '<'")
		return 0, false
	}
	p.sc.Advance() // consume '>'

	if !p.declared[name] {
		p.fail(errtrace.InvalidSyntax, start, "reference to an undeclared name")
		return 0, false
	}

	ref := pattern.Reference{Name: name, Hash: pattern.HashLabel(name), Kind: kind}
	p.blocks = append(p.blocks, pattern.ReferenceBlock(ref))
	return len(p.blocks) - 1, true
}

var validLenFormats = map[byte]pattern.LenFormat{
	'g': pattern.LenBigEndian,
	'l': pattern.LenLittleEndian,
	'b': pattern.LenBinary,
	'd': pattern.LenDecimal,
	'x': pattern.LenHexLower,
	'X': pattern.LenHexUpper,
	'o': pattern.LenOctal,
}

// validLenWidth enforces each format's declared width range. Raw binary
// formats (g, l, b) have no "0 = unpadded" shorthand — a width is always
// required; the text formats (d, x, X, o) accept 0 to mean "no padding."
func validLenWidth(format pattern.LenFormat, width int) bool {
	switch format {
	case pattern.LenBigEndian, pattern.LenLittleEndian:
		return width >= 1 && width <= 8
	case pattern.LenBinary:
		return width >= 1 && width <= 64
	case pattern.LenDecimal:
		return width >= 0 && width <= 20
	case pattern.LenHexLower, pattern.LenHexUpper:
		return width >= 0 && width <= 16
	case pattern.LenOctal:
		return width >= 0 && width <= 22
	default:
		return false
	}
}

// parseLengthReference parses "fmt[width][+add]:NAME>" after the "<#" has
// been consumed.
func (p *parser) parseLengthReference(start int) (int, bool) {
	if p.sc.AtEnd() {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '<'")
		return 0, false
	}
	format, ok := validLenFormats[p.sc.Ch()]
	if !ok {
		p.fail(errtrace.InvalidSyntax, start, "unknown length format")
		return 0, false
	}
	p.sc.Advance()

	haveWidth, width := p.readDigits()
	if p.failed {
		return 0, false
	}
	if !haveWidth {
		width = 0
	}
	if !validLenWidth(format, width) {
		p.fail(errtrace.InvalidSyntax, start, "length field width out of range for its format")
		return 0, false
	}

	var add int64
	if p.sc.Ch() == '+' {
		p.sc.Advance()
		neg := false
		if p.sc.Ch() == '-' {
			neg = true
			p.sc.Advance()
		}
		haveAdd, addVal := p.readDigits()
		if p.failed {
			return 0, false
		}
		if !haveAdd {
			p.fail(errtrace.InvalidSyntax, start, "'+' requires a value")
			return 0, false
		}
		add = int64(addVal)
		if neg {
			add = -add
		}
	}

	if p.sc.Ch() != ':' {
		p.fail(errtrace.InvalidSyntax, start, "length reference requires ':NAME'")
		return 0, false
	}
	p.sc.Advance()

	name, ok := p.readLabel(start)
	if !ok {
		return 0, false
	}
	if p.sc.Ch() != '>' {
		p.fail(errtrace.InvalidSyntax, start, "unclosed '<'")
		return 0, false
	}
	p.sc.Advance()

	if !p.declared[name] {
		p.fail(errtrace.InvalidSyntax, start, "reference to an undeclared name")
		return 0, false
	}

	ref := pattern.Reference{
		Name: name,
		Hash: pattern.HashLabel(name),
		Kind: pattern.RefLength,
		LenOpts: pattern.LenOpts{
			Format: format,
			Width:  width,
			Add:    add,
		},
	}
	p.blocks = append(p.blocks, pattern.ReferenceBlock(ref))
	return len(p.blocks) - 1, true
}
