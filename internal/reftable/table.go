// Package reftable implements the sub-generator cache a running factory
// consults whenever it hits a named reference: the first "<@NAME>" or
// "<#...:NAME>" for a given name triggers generation and caches the bytes;
// every later reference to the same name reuses the cached output until a
// "<%NAME>" reshuffle invalidates it.
//
// This package defines its own Generator interface rather than importing
// the VM's context type directly, so internal/vm can depend on reftable
// without reftable depending back on internal/vm — internal/vm.Context
// implements Generator, it just never needs to be named here.
package reftable

// Generator produces one sub-factory's output on demand and releases
// whatever state it holds when torn down. internal/vm.Context implements
// this by running its own nested generator loop.
type Generator interface {
	Generate() ([]byte, error)
	Close()
}

// Factory is anything that can build a new Generator for a given sub-factory
// name — supplied by the VM, since only it knows how to construct a nested
// execution context.
type Factory func(name string) (Generator, error)

type entry struct {
	gen    Generator
	output []byte
	valid  bool
}

// Table is one factory run's reference cache: one entry per distinct name
// referenced so far, built lazily on first use.
type Table struct {
	build   Factory
	entries map[string]*entry
}

// New returns an empty Table that builds missing generators with build.
func New(build Factory) *Table {
	return &Table{build: build, entries: make(map[string]*entry)}
}

// Get returns the cached output for name, generating it on first reference.
func (t *Table) Get(name string) ([]byte, error) {
	e, ok := t.entries[name]
	if !ok {
		gen, err := t.build(name)
		if err != nil {
			return nil, err
		}
		e = &entry{gen: gen}
		t.entries[name] = e
	}
	if !e.valid {
		out, err := e.gen.Generate()
		if err != nil {
			return nil, err
		}
		e.output = out
		e.valid = true
	}
	return e.output, nil
}

// Invalidate drops name's cached output (but keeps its Generator alive) so
// the next Get produces a fresh value — the effect of a "<%NAME>" reshuffle.
// It is a no-op if name has never been referenced.
func (t *Table) Invalidate(name string) {
	if e, ok := t.entries[name]; ok {
		e.valid = false
		e.output = nil
	}
}

// Close tears down every realized generator depth-first: each child's own
// Close runs (and with it, any grandchildren it holds) before this table
// forgets it.
func (t *Table) Close() {
	for name, e := range t.entries {
		e.gen.Close()
		delete(t.entries, name)
	}
}
