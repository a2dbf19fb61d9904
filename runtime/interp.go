package runtime

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/dysl"
)

// Interp is an interpreter context built against a runtime. It holds a
// reference to the runtime without owning it, plus the evaluator's value
// stack. Reference values on the stack count as live during collection
// cycles: the context registers itself as a roots provider with the
// runtime's collector.
type Interp struct {
	rt    *Runtime
	stack *arraystack.Stack
}

// NewInterp creates an interpreter context for a runtime.
func NewInterp(rt *Runtime) *Interp {
	ip := &Interp{
		rt:    rt,
		stack: arraystack.New(),
	}
	rt.GC.AddRootsProvider(ip.stackRoots)
	return ip
}

// Runtime returns the runtime this context was built against.
func (ip *Interp) Runtime() *Runtime {
	return ip.rt
}

// Push pushes a value onto the value stack.
func (ip *Interp) Push(v dysl.Value) {
	ip.stack.Push(v)
}

// Pop pops the top-most value. ok is false on an empty stack.
func (ip *Interp) Pop() (v dysl.Value, ok bool) {
	top, ok := ip.stack.Pop()
	if !ok {
		return dysl.Value{}, false
	}
	return top.(dysl.Value), true
}

// Depth returns the value stack's depth.
func (ip *Interp) Depth() int {
	return ip.stack.Size()
}

// stackRoots reports every heap reference on the value stack to the
// collector's mark phase.
func (ip *Interp) stackRoots(visit func(dysl.Handle)) {
	it := ip.stack.Iterator()
	for it.Next() {
		if v := it.Value().(dysl.Value); v.IsRef() {
			visit(v.Ref)
		}
	}
}
