package linker

import (
	"testing"

	"github.com/nanofuzz/nanofuzz/internal/parser"
)

func mustLink(t *testing.T, src string) *Factory {
	t.Helper()
	res, trace, ok := parser.Parse(src)
	if !ok {
		t.Fatalf("parse(%q) failed: %s", src, trace.Error())
	}
	f, ltrace, ok := Link(res)
	if !ok {
		t.Fatalf("link(%q) failed: %s", src, ltrace.Error())
	}
	return f
}

func TestLink_PlainLiteralSize(t *testing.T) {
	f := mustLink(t, "hello")
	if f.MaxOutputSize != 5 {
		t.Fatalf("expected max output size 5, got %d", f.MaxOutputSize)
	}
}

func TestLink_RepeatedSubsequenceSize(t *testing.T) {
	f := mustLink(t, "(ab){3}")
	if f.MaxOutputSize != 6 {
		t.Fatalf("expected max output size 6 (2 bytes x 3 reps), got %d", f.MaxOutputSize)
	}
}

func TestLink_NestedSubsequenceMultipliesThroughBothLevels(t *testing.T) {
	f := mustLink(t, "((a){2}){3}")
	if f.MaxOutputSize != 6 {
		t.Fatalf("expected 1 byte x 2 x 3 = 6, got %d", f.MaxOutputSize)
	}
}

func TestLink_AlternationSumsArms(t *testing.T) {
	f := mustLink(t, "ab|cdef")
	if f.MaxOutputSize != 6 {
		t.Fatalf("expected conservative sum of both arms (2+4=6), got %d", f.MaxOutputSize)
	}
}

func TestLink_PasteReferenceUsesChildBudget(t *testing.T) {
	f := mustLink(t, "(ab){3}<$X>-<@X><@X>")
	if f.SubFactories["X"].MaxOutputSize != 6 {
		t.Fatalf("expected X's own budget to be 6, got %d", f.SubFactories["X"].MaxOutputSize)
	}
	// top level: the declaration's own implicit paste of X (6) + "-" (1) +
	// 2 explicit paste refs of X (6 each) = 19
	if f.MaxOutputSize != 19 {
		t.Fatalf("expected top-level budget 19, got %d", f.MaxOutputSize)
	}
}

func TestLink_LengthReferenceUsesFixedWidth(t *testing.T) {
	f := mustLink(t, "(ab)<$X><#d4:X>")
	// root stream: the declaration's implicit paste of X (2) + the length
	// reference's fixed width (4) = 6.
	if f.MaxOutputSize != 6 {
		t.Fatalf("expected implicit paste plus length reference width (6), got %d", f.MaxOutputSize)
	}
}

func TestLink_ShuffleReferenceContributesNothingToParent(t *testing.T) {
	f := mustLink(t, "(ab)<$X><%X>")
	// root stream: the declaration's implicit paste of X (2) + the shuffle,
	// which adds nothing of its own = 2.
	if f.MaxOutputSize != 2 {
		t.Fatalf("expected only the implicit paste's contribution (2), got %d", f.MaxOutputSize)
	}
}

func TestLink_SubFactoriesMapIsShared(t *testing.T) {
	f := mustLink(t, "(a)<$X>(b)<$Y><@X><@Y>")
	if f.SubFactories["X"].SubFactories["Y"] == nil {
		t.Fatal("expected sub-factory X to see sibling Y through the shared map")
	}
}
