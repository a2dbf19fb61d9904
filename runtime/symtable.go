package runtime

import (
	"bytes"
	"encoding/binary"

	"github.com/npillmayer/dysl"
	"github.com/npillmayer/dysl/gc"
	"github.com/npillmayer/dysl/mem"
)

// Symbol table for interned identifiers. Unlike a scope-bound variable
// table, this is a process-of-one-runtime-wide canonicalization map: a byte
// sequence maps to at most one live symbol.

// Table sizing policy.
const (
	InitialCapacity = 64   // bucket count never falls below this
	LoadFactor      = 0.75 // grow when count would exceed capacity × LoadFactor
)

// Symbol is an interned, immutable byte sequence with its precomputed hash.
// The name bytes live in the symbol object's provider-issued block. Symbols
// chain within a hash bucket through a handle link.
type Symbol struct {
	name []byte
	hash uint32
	next dysl.Handle // bucket chain
}

// Name returns the symbol's name.
func (s *Symbol) Name() string {
	return string(s.name)
}

// NameBytes returns the symbol's name bytes. Callers must not modify them.
func (s *Symbol) NameBytes() []byte {
	return s.name
}

// Hash returns the symbol's precomputed FNV-1a hash.
func (s *Symbol) Hash() uint32 {
	return s.hash
}

// SymbolTable maps byte sequences to interned symbol objects, using
// separate chaining over a bucket array. The bucket array is a
// provider-issued block of little-endian handle slots, so a counting
// provider sees it like any other runtime allocation. The table does not
// own the symbols; they belong to the collector's root list.
type SymbolTable struct {
	gc      *gc.Collector
	buckets []byte // bucketWidth bytes per slot
	count   int
}

const bucketWidth = 4

// NewSymbolTable creates a symbol table whose symbols are constructed
// through (and owned by) the given collector. An initialCapacity below
// InitialCapacity is raised to it.
func NewSymbolTable(c *gc.Collector, initialCapacity int) (*SymbolTable, error) {
	if initialCapacity < InitialCapacity {
		initialCapacity = InitialCapacity
	}
	block := c.Provider().Allocate(initialCapacity * bucketWidth)
	if block == nil {
		return nil, gc.ErrNoMemory
	}
	clear0(block)
	return &SymbolTable{gc: c, buckets: block}, nil
}

// destroy releases the bucket block, not the symbols themselves, which
// remain under collector ownership.
func (t *SymbolTable) destroy(p mem.Provider) {
	p.Release(t.buckets)
	t.buckets = nil
	t.count = 0
}

// Count returns the number of interned symbols.
func (t *SymbolTable) Count() int {
	return t.count
}

// Capacity returns the current bucket count.
func (t *SymbolTable) Capacity() int {
	return len(t.buckets) / bucketWidth
}

func (t *SymbolTable) bucket(i int) dysl.Handle {
	return dysl.Handle(binary.LittleEndian.Uint32(t.buckets[i*bucketWidth:]))
}

func (t *SymbolTable) setBucket(i int, h dysl.Handle) {
	binary.LittleEndian.PutUint32(t.buckets[i*bucketWidth:], uint32(h))
}

func (t *SymbolTable) symbol(h dysl.Handle) *Symbol {
	return t.gc.Object(h).Data.(*Symbol)
}

// Lookup finds the interned symbol for a byte sequence. It returns the
// symbol's handle, or (NoObject, false) if the sequence has not been
// interned. Lookup never creates a symbol.
func (t *SymbolTable) Lookup(name []byte) (dysl.Handle, bool) {
	return t.lookup(name, dysl.Hash(name))
}

// lookup walks the target bucket's chain, comparing hash, length and bytes
// in that order, cheap rejections first.
func (t *SymbolTable) lookup(name []byte, hash uint32) (dysl.Handle, bool) {
	h := t.bucket(int(hash % uint32(t.Capacity())))
	for h != dysl.NoObject {
		sym := t.symbol(h)
		if sym.hash == hash && len(sym.name) == len(name) && bytes.Equal(sym.name, name) {
			return h, true
		}
		h = sym.next
	}
	return dysl.NoObject, false
}

// Intern returns the canonical symbol for a byte sequence, creating it if
// absent. The new symbol is constructed through the collector and placed on
// its root list: symbols are never freed individually, their lifetime
// equals the runtime's. Intern fails only if the provider cannot allocate
// the symbol itself; an over-full table keeps working through chaining.
func (t *SymbolTable) Intern(name []byte) (dysl.Handle, error) {
	hash := dysl.Hash(name)
	if h, found := t.lookup(name, hash); found {
		return h, nil
	}
	t.EnsureCapacity(t.count + 1)
	h, err := t.gc.Create(len(name), dysl.SymbolType)
	if err != nil {
		return dysl.NoObject, err
	}
	o := t.gc.Object(h)
	copy(o.Block(), name)
	index := int(hash % uint32(t.Capacity()))
	o.Data = &Symbol{name: o.Block(), hash: hash, next: t.bucket(index)}
	t.gc.Root(h)
	t.setBucket(index, h)
	t.count++
	return h, nil
}

// Each iterates over every interned symbol, executing a mapper function.
func (t *SymbolTable) Each(mapper func(dysl.Handle, *Symbol)) {
	for i := 0; i < t.Capacity(); i++ {
		h := t.bucket(i)
		for h != dysl.NoObject {
			sym := t.symbol(h)
			mapper(h, sym)
			h = sym.next
		}
	}
}

// EnsureCapacity grows or shrinks the table to a reasonable size for the
// desired symbol count: capacity doubles while capacity × LoadFactor is
// below the desired count, and halves (never below InitialCapacity) while
// the table is over-provisioned by more than 4×.
func (t *SymbolTable) EnsureCapacity(desiredCount int) {
	capacity := t.Capacity()
	newCapacity := capacity
	if desiredCount > growThreshold(capacity) {
		for desiredCount > growThreshold(newCapacity) {
			newCapacity *= 2
		}
	} else if desiredCount < capacity/4 && capacity > InitialCapacity {
		for newCapacity > InitialCapacity && desiredCount < newCapacity/4 {
			newCapacity /= 2
		}
	}
	if newCapacity != capacity {
		t.resize(newCapacity)
	}
}

func growThreshold(capacity int) int {
	return int(float64(capacity) * LoadFactor)
}

// resize rehashes every symbol into a freshly sized bucket block. If the
// provider cannot allocate the new block, the table stays at its prior
// capacity and keeps operating correctly through chaining; availability
// wins over performance here.
func (t *SymbolTable) resize(newCapacity int) {
	p := t.gc.Provider()
	block := p.Allocate(newCapacity * bucketWidth)
	if block == nil {
		tracer().Infof("symbol table stays at capacity %d, provider failed for %d",
			t.Capacity(), newCapacity)
		return
	}
	clear0(block)
	old := t.buckets
	oldCapacity := t.Capacity()
	t.buckets = block
	for i := 0; i < oldCapacity; i++ {
		h := dysl.Handle(binary.LittleEndian.Uint32(old[i*bucketWidth:]))
		for h != dysl.NoObject {
			sym := t.symbol(h)
			next := sym.next
			index := int(sym.hash % uint32(newCapacity))
			sym.next = t.bucket(index)
			t.setBucket(index, h)
			h = next
		}
	}
	p.Release(old)
	tracer().Debugf("symbol table resized %d -> %d", oldCapacity, newCapacity)
}

// clear0 zeroes a block. Providers are not obliged to hand out zeroed
// memory.
func clear0(block []byte) {
	for i := range block {
		block[i] = 0
	}
}
