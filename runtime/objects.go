package runtime

import (
	"github.com/npillmayer/dysl"
	"github.com/npillmayer/dysl/gc"
)

// Heap object payloads beyond symbols: strings and pairs. Both are ordinary
// collectible objects on the generation list; callers pin them with
// Collector.Root while they are referenced from long-lived storage.

// String is an immutable, fixed-length byte buffer. The bytes live in the
// object's provider-issued block.
type String struct {
	data []byte
}

// Bytes returns the string's contents. Callers must not modify them.
func (s *String) Bytes() []byte {
	return s.data
}

func (s *String) String() string {
	return string(s.data)
}

// NewString creates a collectible string object holding a copy of data.
func NewString(c *gc.Collector, data []byte) (dysl.Handle, error) {
	h, err := c.Create(len(data), dysl.StringType)
	if err != nil {
		return dysl.NoObject, err
	}
	o := c.Object(h)
	copy(o.Block(), data)
	o.Data = &String{data: o.Block()}
	return h, nil
}

// Pair is a cons cell over two tagged values. It is the built-in container
// payload: its reference variants count as children during a collection
// cycle's mark phase.
type Pair struct {
	Car, Cdr dysl.Value
}

// References implements gc.Referencer.
func (p *Pair) References(visit func(dysl.Handle)) {
	if p.Car.IsRef() {
		visit(p.Car.Ref)
	}
	if p.Cdr.IsRef() {
		visit(p.Cdr.Ref)
	}
}

// NewPair creates a collectible pair object. Pairs carry no byte storage,
// only their payload.
func NewPair(c *gc.Collector, car, cdr dysl.Value) (dysl.Handle, error) {
	h, err := c.Create(0, dysl.PairType)
	if err != nil {
		return dysl.NoObject, err
	}
	c.Object(h).Data = &Pair{Car: car, Cdr: cdr}
	return h, nil
}
