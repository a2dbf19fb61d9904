package gc

import (
	"github.com/npillmayer/dysl"
)

// Object is the header every heap-allocated entity begins with: a type tag
// and tracking-list membership. The mark flag is transient state of the
// collector's mark phase; it lives in a dedicated field and never encodes
// into the tag.
type Object struct {
	Tag        dysl.Tag
	Data       interface{} // payload, optional
	block      []byte      // provider-issued storage, optional
	marked     bool
	rooted     bool
	prev, next dysl.Handle
}

// Block returns the object's provider-issued storage, nil if the object
// carries none. The contents are owned by the object; callers must treat
// the slice as immutable.
func (o *Object) Block() []byte {
	return o.block
}

// Size returns the size of the object's storage in bytes.
func (o *Object) Size() int {
	return len(o.block)
}

// Referencer is implemented by payloads that reference other heap objects.
// The collector's mark phase calls References to enumerate an object's
// children; payloads without references need not implement it.
type Referencer interface {
	References(visit func(dysl.Handle))
}

// --- Arena -----------------------------------------------------------------

// Arena is a handle-indexed store of objects. Handle h references the
// arena's slot h-1; slots of reclaimed objects are recycled, but an object
// keeps its handle (and its address) for its whole lifetime.
//
// The arena also implements the intrusive circular list primitives over its
// objects. All three are O(1) and never allocate.
type Arena struct {
	slots []*Object
	free  []dysl.Handle
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New reserves a slot for a fresh object and returns its handle.
// The object starts out closed (self-looped).
func (a *Arena) New() dysl.Handle {
	var h dysl.Handle
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h-1] = &Object{}
	} else {
		a.slots = append(a.slots, &Object{})
		h = dysl.Handle(len(a.slots))
	}
	a.Close(h)
	return h
}

// Object resolves a handle. Resolving the zero handle or a recycled handle
// yields nil.
func (a *Arena) Object(h dysl.Handle) *Object {
	if h == dysl.NoObject || int(h) > len(a.slots) {
		return nil
	}
	return a.slots[h-1]
}

// Recycle frees the slot of a reclaimed object. The handle may be handed
// out again by a later New.
func (a *Arena) Recycle(h dysl.Handle) {
	if o := a.Object(h); o != nil {
		a.slots[h-1] = nil
		a.free = append(a.free, h)
	}
}

// Count returns the number of objects currently held in the arena.
func (a *Arena) Count() int {
	return len(a.slots) - len(a.free)
}

// --- Tracking-list primitives ----------------------------------------------

// Close self-loops both links of an object, detaching it. This is also the
// initial state of a list sentinel; a closed sentinel is an empty list.
// Closing the zero handle or a recycled handle is a no-op.
func (a *Arena) Close(h dysl.Handle) {
	o := a.Object(h)
	if o == nil {
		return
	}
	o.prev, o.next = h, h
}

// Unlink splices an object out of whatever list it is in and closes it.
// Unlinking a closed object, the zero handle or a recycled handle is a
// no-op.
func (a *Arena) Unlink(h dysl.Handle) {
	o := a.Object(h)
	if o == nil {
		return
	}
	a.Object(o.prev).next = o.next
	a.Object(o.next).prev = o.prev
	a.Close(h)
}

// Link splices an object in immediately after the list head. The object
// must be closed or in some list already; it is unlinked first, so its
// links are never left dangling. Linking the zero handle or a recycled
// handle, or linking into one, is a no-op.
func (a *Arena) Link(h, list dysl.Handle) {
	o, l := a.Object(h), a.Object(list)
	if o == nil || l == nil {
		return
	}
	a.Unlink(h)
	o.next = l.next
	o.prev = list
	a.Object(l.next).prev = h
	l.next = h
}

// Walk visits every member of the list anchored at the given sentinel, in
// list order, skipping the sentinel itself. The visited object may be
// unlinked or recycled by the callback.
func (a *Arena) Walk(sentinel dysl.Handle, visit func(dysl.Handle)) {
	h := a.Object(sentinel).next
	for h != sentinel {
		next := a.Object(h).next // read before visit may unlink h
		visit(h)
		h = next
	}
}
