package gc

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/inhies/go-bytesize"
	"github.com/npillmayer/dysl"
	"github.com/npillmayer/dysl/mem"
)

// ErrNoMemory is returned when the memory provider cannot satisfy an
// allocation request.
var ErrNoMemory = errors.New("memory provider failed to allocate")

// DefaultThreshold is the generation-list size that triggers the first
// collection cycle, unless configured otherwise.
const DefaultThreshold = 256

// RootsProvider enumerates additional roots for the mark phase, e.g. the
// live references on an interpreter's value stack.
type RootsProvider func(visit func(dysl.Handle))

// Collector owns a memory provider, a root list and a generation list, and
// is responsible for creating tagged heap objects and reclaiming
// unreachable ones. A collector is not safe for concurrent use; embedders
// running multiple goroutines must serialize access themselves.
type Collector struct {
	provider  mem.Provider
	arena     *Arena
	root, gen dysl.Handle // list sentinels
	genCount  int
	rootCount int
	heapBytes int64
	threshold int // generation-list size triggering a cycle
	floor     int // threshold never falls below this
	cycles    int
	roots     []RootsProvider
}

// NewCollector creates a collector over the given provider. A threshold of
// 0 selects DefaultThreshold.
func NewCollector(p mem.Provider, threshold int) *Collector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	c := &Collector{
		provider:  p,
		arena:     NewArena(),
		threshold: threshold,
		floor:     threshold,
	}
	c.root = c.arena.New() // sentinels start out closed = empty lists
	c.gen = c.arena.New()
	return c
}

// Provider returns the memory provider the collector was created with.
// The provider stays the same for the collector's whole lifetime.
func (c *Collector) Provider() mem.Provider {
	return c.provider
}

// Arena returns the collector's object arena.
func (c *Collector) Arena() *Arena {
	return c.arena
}

// Object resolves a handle to its object header.
func (c *Collector) Object(h dysl.Handle) *Object {
	return c.arena.Object(h)
}

// AddRootsProvider registers an additional source of roots for the mark
// phase. Providers are consulted on every cycle.
func (c *Collector) AddRootsProvider(rp RootsProvider) {
	c.roots = append(c.roots, rp)
}

// Create allocates a tagged heap object with size bytes of storage and
// tracks it in the generation list. A size of 0 creates an object without
// provider-issued storage (payload-only objects). When the generation list
// has crossed the collection threshold, a cycle runs first.
func (c *Collector) Create(size int, tag dysl.Tag) (dysl.Handle, error) {
	if c.genCount >= c.threshold {
		c.Collect()
	}
	var block []byte
	if size > 0 {
		if block = c.provider.Allocate(size); block == nil {
			tracer().Errorf("cannot create %s object, provider failed for %d bytes", tag, size)
			return dysl.NoObject, ErrNoMemory
		}
	}
	h := c.arena.New()
	o := c.arena.Object(h)
	o.Tag = tag
	o.block = block
	c.arena.Link(h, c.gen)
	c.genCount++
	c.heapBytes += int64(size)
	return h, nil
}

// Root promotes an object to the root list, pinning it (and everything
// reachable from it) across collection cycles. Rooting a rooted object is
// a no-op.
func (c *Collector) Root(h dysl.Handle) {
	o := c.arena.Object(h)
	if o == nil || o.rooted {
		return
	}
	c.arena.Link(h, c.root)
	o.rooted = true
	c.genCount--
	c.rootCount++
}

// Unroot demotes an object back to the generation list, making it eligible
// for reclamation again. Unrooting an unrooted object is a no-op.
func (c *Collector) Unroot(h dysl.Handle) {
	o := c.arena.Object(h)
	if o == nil || !o.rooted {
		return
	}
	c.arena.Link(h, c.gen)
	o.rooted = false
	c.rootCount--
	c.genCount++
}

// Collect runs a full mark-and-sweep cycle and returns the number of
// objects reclaimed. Objects on the root list, objects enumerated by
// registered roots providers, and everything reachable from either are
// kept; the rest of the generation list is released.
func (c *Collector) Collect() int {
	c.cycles++
	// reset transient mark state
	c.arena.Walk(c.root, func(h dysl.Handle) { c.arena.Object(h).marked = false })
	c.arena.Walk(c.gen, func(h dysl.Handle) { c.arena.Object(h).marked = false })
	// mark phase
	worklist := arraystack.New()
	c.arena.Walk(c.root, func(h dysl.Handle) { worklist.Push(h) })
	for _, rp := range c.roots {
		rp(func(h dysl.Handle) { worklist.Push(h) })
	}
	for {
		top, ok := worklist.Pop()
		if !ok {
			break
		}
		h := top.(dysl.Handle)
		o := c.arena.Object(h)
		if o == nil || o.marked {
			continue
		}
		o.marked = true
		if r, ok := o.Data.(Referencer); ok {
			r.References(func(child dysl.Handle) { worklist.Push(child) })
		}
	}
	// sweep the generation list
	freed := 0
	c.arena.Walk(c.gen, func(h dysl.Handle) {
		o := c.arena.Object(h)
		if o.marked {
			o.marked = false
			return
		}
		c.arena.Unlink(h)
		c.release(o)
		c.arena.Recycle(h)
		c.genCount--
		freed++
	})
	// a doubling threshold, floored at the configured initial value
	c.threshold = c.genCount * 2
	if c.threshold < c.floor {
		c.threshold = c.floor
	}
	tracer().P("cycle", fmt.Sprintf("%d", c.cycles)).Debugf(
		"collected %d objects, %d live, heap %v", freed, c.genCount+c.rootCount,
		bytesize.New(float64(c.heapBytes)))
	return freed
}

func (c *Collector) release(o *Object) {
	if o.block != nil {
		c.heapBytes -= int64(len(o.block))
		c.provider.Release(o.block)
		o.block = nil
	}
	o.Data = nil
}

// Close releases every tracked object's storage and drops the arena. The
// collector is unusable afterwards. Used by the runtime during teardown.
// Close is idempotent.
func (c *Collector) Close() {
	if c.root == dysl.NoObject {
		return
	}
	c.arena.Walk(c.root, func(h dysl.Handle) {
		c.arena.Unlink(h)
		c.release(c.arena.Object(h))
		c.arena.Recycle(h)
	})
	c.arena.Walk(c.gen, func(h dysl.Handle) {
		c.arena.Unlink(h)
		c.release(c.arena.Object(h))
		c.arena.Recycle(h)
	})
	c.genCount, c.rootCount = 0, 0
	c.arena = NewArena()
	c.root, c.gen = dysl.NoObject, dysl.NoObject
}

// --- Stats -----------------------------------------------------------------

// Stats is a snapshot of the collector's bookkeeping.
type Stats struct {
	Live      int   // objects on the generation list
	Rooted    int   // objects on the root list
	HeapBytes int64 // provider-issued bytes held by tracked objects
	Cycles    int   // collection cycles run so far
	Threshold int   // generation-list size triggering the next cycle
}

// Stats returns a snapshot of the collector's bookkeeping.
func (c *Collector) Stats() Stats {
	return Stats{
		Live:      c.genCount,
		Rooted:    c.rootCount,
		HeapBytes: c.heapBytes,
		Cycles:    c.cycles,
		Threshold: c.threshold,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("<gc %d live, %d rooted, heap %v, %d cycles>",
		s.Live, s.Rooted, bytesize.New(float64(s.HeapBytes)), s.Cycles)
}
