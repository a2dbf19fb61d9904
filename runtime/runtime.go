/*
Package runtime implements the global state of a dysl interpreter instance:
one garbage collector and one symbol table, created together and destroyed
together, plus interpreter contexts built on top of them.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Symbols

Identifiers are interned: for any byte sequence at most one live symbol
exists per runtime, and interning the same bytes twice yields the same
handle. Symbols are owned by the collector's root list and live as long as
the runtime does; the symbol table itself holds only non-owning references.

Strings and Pairs

Strings are immutable, collectible byte buffers. Pairs are cons cells over
tagged values; they are the one built-in payload that references other
heap objects and therefore participates in reference tracing.

----------------------------------------------------------------------

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package runtime

import (
	"fmt"

	"github.com/npillmayer/dysl"
	"github.com/npillmayer/dysl/gc"
	"github.com/npillmayer/dysl/mem"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dysl.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("dysl.runtime")
}

// Options configure a runtime instance. The zero value selects defaults.
// Fields carry YAML tags so front ends can read options from a config file.
type Options struct {
	SymbolCapacity int `yaml:"symbol-capacity"` // initial bucket count, floored at 64
	GCThreshold    int `yaml:"gc-threshold"`    // generation-list size triggering a cycle
}

// Runtime is the global state of an interpreter instance. It owns exactly
// one collector and one symbol table; interpreter contexts reference a
// runtime without owning it.
type Runtime struct {
	GC      *gc.Collector
	Symbols *SymbolTable
	UData   interface{} // extension point
}

// NewRuntime constructs a runtime environment over the given memory
// provider. Any allocation failure during construction unwinds everything
// already allocated before reporting the failure.
func NewRuntime(p mem.Provider, opts Options) (*Runtime, error) {
	c := gc.NewCollector(p, opts.GCThreshold)
	symtab, err := NewSymbolTable(c, opts.SymbolCapacity)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("cannot create runtime: %w", err)
	}
	rt := &Runtime{GC: c, Symbols: symtab}
	tracer().Debugf("runtime created, symbol capacity %d", symtab.Capacity())
	return rt, nil
}

// Destroy tears a runtime down: the symbol table's bucket block first, then
// the storage of every object the collector still tracks. The provider is
// read out of the collector before teardown begins. Destroy is idempotent;
// a destroyed runtime must not be used again.
func (rt *Runtime) Destroy() {
	if rt.GC == nil {
		return
	}
	provider := rt.GC.Provider()
	rt.Symbols.destroy(provider)
	rt.GC.Close()
	rt.Symbols, rt.GC = nil, nil
	tracer().Debugf("runtime destroyed")
}

// Intern is a convenience wrapper around the symbol table, returning the
// interned symbol as a tagged value.
func (rt *Runtime) Intern(name string) (dysl.Value, error) {
	h, err := rt.Symbols.Intern([]byte(name))
	if err != nil {
		return dysl.Value{}, err
	}
	return dysl.RefValue(dysl.SymbolType, h), nil
}
