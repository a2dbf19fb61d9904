package runtime

import (
	"fmt"
	"testing"

	"github.com/npillmayer/dysl"
	"github.com/npillmayer/dysl/gc"
	"github.com/npillmayer/dysl/mem"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newTestTable(t *testing.T, p mem.Provider) (*gc.Collector, *SymbolTable) {
	c := gc.NewCollector(p, 0)
	symtab, err := NewSymbolTable(c, 0)
	if err != nil {
		t.Fatal(err)
	}
	return c, symtab
}

func TestNewSymTab(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	_, symtab := newTestTable(t, mem.Standard())
	if symtab.Capacity() != InitialCapacity || symtab.Count() != 0 {
		t.Errorf("fresh table should have capacity %d and no entries", InitialCapacity)
	}
}

func TestInternIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	_, symtab := newTestTable(t, mem.Standard())
	h1, err := symtab.Intern([]byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := symtab.Intern([]byte("foo"))
	if h1 != h2 {
		t.Error("interning the same bytes twice must yield the same symbol")
	}
	if symtab.Count() != 1 {
		t.Errorf("expected 1 interned symbol, have %d", symtab.Count())
	}
}

func TestInternDistinct(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	c, symtab := newTestTable(t, mem.Standard())
	foo, _ := symtab.Intern([]byte("foo"))
	bar, _ := symtab.Intern([]byte("bar"))
	if foo == bar {
		t.Error("2 symbols with different names share an identity")
	}
	if symtab.Count() != 2 {
		t.Errorf("expected 2 interned symbols, have %d", symtab.Count())
	}
	sym := c.Object(foo).Data.(*Symbol)
	if sym.Name() != "foo" || sym.Hash() != dysl.Hash([]byte("foo")) {
		t.Error("symbol does not carry its name and hash")
	}
}

func TestLookupNeverCreates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	_, symtab := newTestTable(t, mem.Standard())
	if _, found := symtab.Lookup([]byte("ghost")); found {
		t.Error("lookup of an unknown name must not find anything")
	}
	if symtab.Count() != 0 {
		t.Error("lookup must not create symbols")
	}
	h, _ := symtab.Intern([]byte("ghost"))
	if found, ok := symtab.Lookup([]byte("ghost")); !ok || found != h {
		t.Error("lookup should find the interned symbol")
	}
}

func TestGrowthTrigger(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	_, symtab := newTestTable(t, mem.Standard())
	for i := 0; i < 48; i++ {
		if _, err := symtab.Intern([]byte(fmt.Sprintf("sym%02d", i))); err != nil {
			t.Fatal(err)
		}
	}
	if symtab.Capacity() != 64 {
		t.Fatalf("48 symbols fit the load factor, capacity should still be 64, is %d",
			symtab.Capacity())
	}
	symtab.Intern([]byte("sym48")) // 49 > 64 × 0.75
	if symtab.Capacity() != 128 {
		t.Errorf("the 49th symbol should double capacity to 128, is %d", symtab.Capacity())
	}
	if symtab.Count() != 49 {
		t.Errorf("expected 49 symbols after growth, have %d", symtab.Count())
	}
	// every symbol must be lookup-able after the rehash
	for i := 0; i < 49; i++ {
		if _, found := symtab.Lookup([]byte(fmt.Sprintf("sym%02d", i))); !found {
			t.Errorf("symbol sym%02d lost during rehash", i)
		}
	}
}

func TestCountMatchesChains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	_, symtab := newTestTable(t, mem.Standard())
	for i := 0; i < 100; i++ {
		symtab.Intern([]byte(fmt.Sprintf("sym%02d", i)))
	}
	reachable := 0
	symtab.Each(func(dysl.Handle, *Symbol) { reachable++ })
	if reachable != symtab.Count() {
		t.Errorf("count %d disagrees with %d chain entries", symtab.Count(), reachable)
	}
	if symtab.Count() > growThreshold(symtab.Capacity()) {
		t.Errorf("load factor violated right after resizing: %d/%d",
			symtab.Count(), symtab.Capacity())
	}
}

func TestShrinkFloor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	_, symtab := newTestTable(t, mem.Standard())
	for i := 0; i < 49; i++ {
		symtab.Intern([]byte(fmt.Sprintf("sym%02d", i)))
	}
	if symtab.Capacity() != 128 {
		t.Fatalf("precondition: capacity 128, is %d", symtab.Capacity())
	}
	symtab.EnsureCapacity(10) // heavily over-provisioned now
	if symtab.Capacity() != 64 {
		t.Errorf("shrink should halve back to the 64 floor, is %d", symtab.Capacity())
	}
	symtab.EnsureCapacity(0)
	if symtab.Capacity() != 64 {
		t.Errorf("capacity must never fall below 64, is %d", symtab.Capacity())
	}
	// entries survive shrinking, too
	for i := 0; i < 49; i++ {
		if _, found := symtab.Lookup([]byte(fmt.Sprintf("sym%02d", i))); !found {
			t.Errorf("symbol sym%02d lost during shrink", i)
		}
	}
}

// flakyProvider fails any allocation larger than failOver bytes, which lets
// us fail a bucket-array resize while symbol creation keeps working.
type flakyProvider struct {
	mem.Provider
	failOver int
}

func (f *flakyProvider) Allocate(size int) []byte {
	if size > f.failOver {
		return nil
	}
	return f.Provider.Allocate(size)
}

func TestResizeFailureDegrades(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	flaky := &flakyProvider{Provider: mem.Standard(), failOver: InitialCapacity * 4}
	_, symtab := newTestTable(t, flaky)
	for i := 0; i < 60; i++ {
		if _, err := symtab.Intern([]byte(fmt.Sprintf("sym%02d", i))); err != nil {
			t.Fatal(err)
		}
	}
	if symtab.Capacity() != InitialCapacity {
		t.Errorf("failed resize should leave capacity at %d, is %d",
			InitialCapacity, symtab.Capacity())
	}
	if symtab.Count() != 60 {
		t.Errorf("interning must keep working through chaining, count is %d", symtab.Count())
	}
	for i := 0; i < 60; i++ {
		if _, found := symtab.Lookup([]byte(fmt.Sprintf("sym%02d", i))); !found {
			t.Errorf("symbol sym%02d not lookup-able in degraded table", i)
		}
	}
}

func TestSymbolsSurviveCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dysl.runtime")
	defer teardown()
	//
	c, symtab := newTestTable(t, mem.Standard())
	h, _ := symtab.Intern([]byte("keepme"))
	c.Collect()
	if c.Object(h) == nil {
		t.Fatal("interned symbols must never be collected")
	}
	if got, found := symtab.Lookup([]byte("keepme")); !found || got != h {
		t.Error("symbol not lookup-able after a collection cycle")
	}
}
