// Package pattern defines the data model a compiled nanofuzz factory is made
// of: the tagged Block record, its Repetition, and the RangeSet and
// Reference payload types. This package holds no behavior beyond
// constructing and validating these values — the lexer/parser builds a list
// of them, the linker lays them out into an immutable array, and the VM
// interprets that array.
package pattern

// Kind tags which variant a Block holds.
type Kind int

const (
	KindString Kind = iota
	KindRange
	KindSub
	KindRet
	KindBranchRoot
	KindBranchJmp
	KindReference
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindRange:
		return "Range"
	case KindSub:
		return "Sub"
	case KindRet:
		return "Ret"
	case KindBranchRoot:
		return "BranchRoot"
	case KindBranchJmp:
		return "BranchJmp"
	case KindReference:
		return "Reference"
	case KindEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// ReferenceKind selects what a <...:NAME> reference emits: the referenced
// sub-generator's bytes, the length of those bytes in a chosen encoding, or
// nothing (a side-effecting reshuffle).
type ReferenceKind int

const (
	RefPaste ReferenceKind = iota
	RefLength
	RefShuffle
)

func (k ReferenceKind) String() string {
	switch k {
	case RefPaste:
		return "paste"
	case RefLength:
		return "length"
	case RefShuffle:
		return "shuffle"
	default:
		return "unknown"
	}
}

// LenFormat is the encoding used by a RefLength reference.
type LenFormat byte

const (
	LenBigEndian    LenFormat = 'g'
	LenLittleEndian LenFormat = 'l'
	LenBinary       LenFormat = 'b'
	LenDecimal      LenFormat = 'd'
	LenHexLower     LenFormat = 'x'
	LenHexUpper     LenFormat = 'X'
	LenOctal        LenFormat = 'o'
)

// LenOpts is the parsed <#fmt[width][+add]:NAME> descriptor.
type LenOpts struct {
	Format LenFormat
	Width  int // 0 means "no padding" for text formats; required for raw formats
	Add    int64
}

// Reference is the payload of a KindReference block: a named cross-reference
// whose name resolves, at link time, to a declared sub-factory.
type Reference struct {
	Name    string
	Hash    uint32
	Kind    ReferenceKind
	LenOpts LenOpts // only meaningful when Kind == RefLength
}

// Block is a single instruction in a factory's linear program. Exactly one
// of the payload fields is meaningful, selected by Kind — mirroring the
// teacher's InstructionForm, which likewise carries several optional fields
// gated by an encoding tag.
type Block struct {
	Kind Kind
	Rep  Repetition

	// KindString
	Data []byte

	// KindRange
	Set RangeSet

	// KindSub — Nest identifies this subsequence scope for diagnostics; it
	// has no runtime meaning to the VM beyond bookkeeping.
	Nest int

	// KindRet
	BackOffset int

	// KindBranchRoot
	Steps []int

	// KindBranchJmp
	ForwardOffset int

	// KindReference
	Ref Reference
}

// String returns a fixed-content block with repetition One.
func String(data []byte) Block {
	return Block{Kind: KindString, Data: data, Rep: One()}
}

// RangeBlock returns a range-set block with repetition One.
func RangeBlock(set RangeSet) Block {
	return Block{Kind: KindRange, Set: set, Rep: One()}
}

// Sub returns a subsequence-open block with repetition One.
func Sub(nest int) Block {
	return Block{Kind: KindSub, Nest: nest, Rep: One()}
}

// Ret returns a subsequence-close block referring back backOffset blocks.
func Ret(backOffset int) Block {
	return Block{Kind: KindRet, BackOffset: backOffset}
}

// BranchRoot returns an alternation dispatcher with the given step table.
// steps[0] is always 1 (the implicit "fall through to the first arm").
func BranchRoot(steps []int) Block {
	return Block{Kind: KindBranchRoot, Steps: steps}
}

// BranchJmp returns an alternation arm terminator with an unresolved (zero)
// forward offset; the parser back-fills ForwardOffset once the arm's
// enclosing scope closes.
func BranchJmp() Block {
	return Block{Kind: KindBranchJmp}
}

// ReferenceBlock returns a reference block with repetition One.
func ReferenceBlock(ref Reference) Block {
	return Block{Kind: KindReference, Ref: ref, Rep: One()}
}

// End returns the sentinel that terminates every factory program.
func End() Block {
	return Block{Kind: KindEnd}
}
