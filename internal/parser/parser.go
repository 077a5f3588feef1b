// Package parser implements nanofuzz's pattern compiler front end: a
// single-pass, recursive-descent scan over the pattern bytes that produces a
// flat, unlinked list of pattern.Block values plus a set of named,
// already-extracted sub-factory bodies. The factory linker (internal/linker)
// takes this output and produces the immutable, jump-resolved program.
//
// The scanner and parser stay separate packages even though the grammar
// needs byte-level lookahead that shifts meaning by context (inside
// "[...]" vs. plain text vs. inside "<...>"): internal/lexer owns only the
// cursor, and all context-sensitive decoding lives here.
package parser

import (
	"github.com/nanofuzz/nanofuzz/internal/errtrace"
	"github.com/nanofuzz/nanofuzz/internal/lexer"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
	"github.com/nanofuzz/nanofuzz/limits"
)

// Result is everything the parser produces from one pattern string: the
// top-level block list and the named sub-factory bodies declared with
// "<$NAME>", in declaration order.
type Result struct {
	Blocks      []pattern.Block
	SubBodies   map[string][]pattern.Block
	SubOrder    []string
}

// Parse compiles a pattern string into a Result. On any grammar violation it
// returns ok=false and a non-empty *errtrace.Trace describing what went
// wrong; the caller must not attempt to link a failed Result.
func Parse(src string) (Result, *errtrace.Trace, bool) {
	p := &parser{
		sc:        lexer.New(src),
		trace:     errtrace.New(),
		subBodies: make(map[string][]pattern.Block),
		declared:  make(map[string]bool),
	}

	if len(src) > limits.MaxPatternLength {
		p.fail(errtrace.InvalidSyntax, 0, "pattern exceeds maximum length")
		return Result{}, p.trace, false
	}

	ok := p.parseScope(0)
	if ok {
		p.blocks = append(p.blocks, pattern.End())
	}

	return Result{
		Blocks:    p.blocks,
		SubBodies: p.subBodies,
		SubOrder:  p.subOrder,
	}, p.trace, ok && p.trace.Empty()
}

// parser holds all mutable state for one compile attempt. The block array
// grows in place as a single flat slice shared by every nesting level — see
// the package doc and DESIGN.md for why this makes alternation splicing and
// sub-factory extraction index-safe without a second rewriting pass.
type parser struct {
	sc    *lexer.Scanner
	trace *errtrace.Trace

	blocks []pattern.Block

	depth       int
	nestCounter int

	declared  map[string]bool
	subBodies map[string][]pattern.Block
	subOrder  []string

	// lastSubIndex is set by parseSubsequence to the index of the Sub block
	// it just closed, so parseScope can record it as the enclosing scope's
	// unit start.
	lastSubIndex int

	failed bool
}

// fail records a fragment and marks the parse as failed. Subsequent scope
// exits see failed and unwind without doing further structural work.
func (p *parser) fail(code errtrace.Code, offset int, message string) {
	p.trace.Add(code, p.depth, offset, message)
	p.failed = true
}

// altState tracks one in-progress alternation group for the scope that owns
// it. Only one can be active per scope: every "|" seen while alt != nil
// extends the same group.
type altState struct {
	rootIndex  int
	steps      []int
	jmpIndices []int
	armStart   int
}

// insertBlockAt splices a block into p.blocks at index i, shifting
// everything at or after i up by one. Safe here because i is always the
// start of the most-recently-completed unit in the current scope — nothing
// recorded so far (in this scope or any enclosing one) points at or past
// that index, since the single left-to-right pass never records a forward
// reference (see DESIGN.md "alternation splicing").
func (p *parser) insertBlockAt(i int, b pattern.Block) {
	p.blocks = append(p.blocks, pattern.Block{})
	copy(p.blocks[i+1:], p.blocks[i:])
	p.blocks[i] = b
}

// parseScope parses one nesting level. term is the byte that closes this
// scope (')' for a subsequence, 0 for the top-level pattern which closes at
// EOF). It returns false the moment any error is recorded.
func (p *parser) parseScope(term byte) bool {
	var lit []byte
	lastUnitStart := -1
	lastUnitHasRep := false
	justSawAltSep := false
	var alt *altState

	flushLiteral := func() {
		if len(lit) == 0 {
			return
		}
		p.blocks = append(p.blocks, pattern.String(append([]byte(nil), lit...)))
		lastUnitStart = len(p.blocks) - 1
		lastUnitHasRep = false
		justSawAltSep = false
		lit = lit[:0]
	}

	closeAlt := func() bool {
		if alt == nil {
			return true
		}
		if alt.armStart == len(p.blocks) {
			p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "alternation may not end a scope with an empty arm")
			return false
		}
		p.blocks[alt.rootIndex].Steps = alt.steps
		for _, j := range alt.jmpIndices {
			p.blocks[j].ForwardOffset = len(p.blocks) - j
		}
		return true
	}

	for {
		if p.failed {
			return false
		}
		if p.sc.AtEnd() {
			flushLiteral()
			if term != 0 {
				p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "unclosed '('")
				return false
			}
			return closeAlt()
		}

		ch := p.sc.Ch()
		if term != 0 && ch == term {
			flushLiteral()
			return closeAlt()
		}

		switch ch {
		case '\\':
			b, ok := p.decodeEscape()
			if !ok {
				return false
			}
			lit = append(lit, b)

		case '[':
			flushLiteral()
			set, ok := p.parseRangeSet()
			if !ok {
				return false
			}
			p.blocks = append(p.blocks, pattern.RangeBlock(set))
			lastUnitStart = len(p.blocks) - 1
			lastUnitHasRep = false
			justSawAltSep = false

		case '{':
			flushLiteral()
			rep, ok := p.parseRepetition()
			if !ok {
				return false
			}
			if lastUnitStart < 0 {
				p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "repetition has no preceding block to attach to")
				return false
			}
			if lastUnitHasRep {
				p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "repetition cannot follow another repetition")
				return false
			}
			if justSawAltSep {
				p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "repetition cannot follow an alternation separator")
				return false
			}
			p.blocks[lastUnitStart].Rep = rep
			lastUnitHasRep = true

		case '(':
			flushLiteral()
			if !p.parseSubsequence() {
				return false
			}
			lastUnitStart = p.lastSubIndex
			lastUnitHasRep = false
			justSawAltSep = false

		case ')':
			p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "stray ')'")
			return false

		case '<':
			flushLiteral()
			idx, isUnit, ok := p.parseAngle(lastUnitStart)
			if !ok {
				return false
			}
			if isUnit {
				lastUnitStart = idx
				lastUnitHasRep = false
			} else {
				// Every construct parseAngle accepts, declarations
				// included, reports isUnit; a non-unit result leaves
				// nothing behind to repeat or branch on.
				lastUnitStart = -1
				lastUnitHasRep = false
			}
			justSawAltSep = false

		case '>':
			p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "stray '>'")
			return false

		case ']':
			p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "stray ']'")
			return false

		case '}':
			p.fail(errtrace.InvalidSyntax, p.sc.Offset(), "stray '}'")
			return false

		case '|':
			flushLiteral()
			if !p.parseAlternationSeparator(&alt, &lastUnitStart, justSawAltSep) {
				return false
			}
			lastUnitHasRep = false
			justSawAltSep = true

		default:
			lit = append(lit, ch)
			p.sc.Advance()
		}
	}
}

