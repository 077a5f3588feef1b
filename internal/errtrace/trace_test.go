package errtrace

import "testing"

func TestTrace_EmptyOnCreation(t *testing.T) {
	tr := New()
	if !tr.Empty() {
		t.Fatal("expected a freshly created trace to be empty")
	}
	if tr.Len() != 0 {
		t.Fatalf("expected 0 fragments, got %d", tr.Len())
	}
}

func TestTrace_AddAppendsInOrder(t *testing.T) {
	tr := New()
	tr.Add(InvalidSyntax, 0, 3, "unclosed '['")
	tr.Add(TooMuchNesting, 2, 10, "nesting depth exceeds 5")

	frags := tr.Fragments()
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if frags[0].Code() != InvalidSyntax || frags[0].Offset() != 3 {
		t.Errorf("unexpected first fragment: %+v", frags[0])
	}
	if frags[1].Code() != TooMuchNesting || frags[1].Depth() != 2 {
		t.Errorf("unexpected second fragment: %+v", frags[1])
	}
}

func TestTrace_DropsFragmentsPastCap(t *testing.T) {
	tr := New()
	for i := 0; i < 32; i++ {
		tr.Add(InvalidSyntax, 0, i, "overflow probe")
	}
	if got := tr.Len(); got != 16 {
		t.Fatalf("expected trace to cap at 16 fragments, got %d", got)
	}
}

func TestTrace_MessageTruncation(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	tr := New()
	tr.Add(InvalidSyntax, 0, 0, string(long))
	if got := len(tr.Fragments()[0].Message()); got != 512 {
		t.Fatalf("expected message truncated to 512 bytes, got %d", got)
	}
}

func TestTrace_FragmentsReturnsCopy(t *testing.T) {
	tr := New()
	tr.Add(InvalidSyntax, 0, 0, "first")

	frags := tr.Fragments()
	frags[0] = newFragment(TooMuchNesting, 9, 9, "mutated")

	if tr.Fragments()[0].Code() != InvalidSyntax {
		t.Fatal("expected Fragments() to return an independent copy")
	}
}
