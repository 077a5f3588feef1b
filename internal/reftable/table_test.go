package reftable

import "testing"

type fakeGen struct {
	calls  int
	closed bool
	bytes  []byte
}

func (f *fakeGen) Generate() ([]byte, error) {
	f.calls++
	return f.bytes, nil
}

func (f *fakeGen) Close() { f.closed = true }

func TestTable_LazyGenerationAndCaching(t *testing.T) {
	gens := map[string]*fakeGen{
		"X": {bytes: []byte("hello")},
	}
	tbl := New(func(name string) (Generator, error) {
		return gens[name], nil
	})

	out1, err := tbl.Get("X")
	if err != nil {
		t.Fatal(err)
	}
	out2, err := tbl.Get("X")
	if err != nil {
		t.Fatal(err)
	}
	if string(out1) != "hello" || string(out2) != "hello" {
		t.Fatalf("unexpected outputs: %q, %q", out1, out2)
	}
	if gens["X"].calls != 1 {
		t.Fatalf("expected exactly one Generate call before any invalidation, got %d", gens["X"].calls)
	}
}

func TestTable_InvalidateForcesRegeneration(t *testing.T) {
	gens := map[string]*fakeGen{"X": {bytes: []byte("a")}}
	tbl := New(func(name string) (Generator, error) { return gens[name], nil })

	tbl.Get("X")
	tbl.Invalidate("X")
	tbl.Get("X")

	if gens["X"].calls != 2 {
		t.Fatalf("expected two Generate calls after invalidation, got %d", gens["X"].calls)
	}
}

func TestTable_InvalidateUnreferencedNameIsNoOp(t *testing.T) {
	tbl := New(func(name string) (Generator, error) { return nil, nil })
	tbl.Invalidate("NEVER_SEEN") // must not panic
}

func TestTable_CloseTearsDownEveryRealizedGenerator(t *testing.T) {
	gens := map[string]*fakeGen{
		"X": {bytes: []byte("a")},
		"Y": {bytes: []byte("b")},
	}
	tbl := New(func(name string) (Generator, error) { return gens[name], nil })

	tbl.Get("X")
	tbl.Get("Y")
	tbl.Close()

	if !gens["X"].closed || !gens["Y"].closed {
		t.Fatal("expected both generators closed")
	}
}

func TestTable_CloseDoesNotTouchNeverReferencedNames(t *testing.T) {
	calls := 0
	tbl := New(func(name string) (Generator, error) {
		calls++
		return &fakeGen{}, nil
	})
	tbl.Close()
	if calls != 0 {
		t.Fatalf("expected Close to never build a generator, got %d build calls", calls)
	}
}
