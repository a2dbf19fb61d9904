package mem

// Provider is the contract between the runtime and a memory provider.
// A provider hands out byte blocks and takes them back; it owns no blocks
// itself and keeps no obligations beyond the three operations.
//
// A nil result from Allocate or Reallocate signals allocation failure.
// Providers must be prepared for Release(nil), which is a no-op.
type Provider interface {
	// Allocate returns a fresh zeroed block of the given size,
	// or nil if size is not positive or the allocation fails.
	Allocate(size int) []byte
	// Reallocate resizes block to newSize, preserving contents up to
	// min(len(block), newSize). The returned block may or may not share
	// storage with the old one. A nil block acts like Allocate(newSize),
	// a non-positive newSize acts like Release(block) and returns nil.
	Reallocate(block []byte, newSize int) []byte
	// Release gives a block back to the provider.
	Release(block []byte)
}

// ResizeFn is the single-callback form of the provider contract, for
// embedders coming from C-style runtimes. It must behave as follows:
//
//	block == nil, newSize > 0:   allocate a block of newSize, nil on failure
//	block != nil, newSize > 0:   resize, preserving min(old, new) bytes,
//	                             nil on failure
//	block != nil, newSize == 0:  release the block, return nil
//	block == nil, newSize == 0:  invalid, return nil
//
// oldSize is len(block) (0 for a nil block); it is passed explicitly so
// callbacks need not rely on slice metadata.
type ResizeFn func(userData interface{}, block []byte, oldSize, newSize int) []byte

// Provide adapts a ResizeFn plus opaque user data to a Provider. The same
// function/user-data pair stays reachable for the adapter's lifetime.
func Provide(fn ResizeFn, userData interface{}) Provider {
	return &fnProvider{fn: fn, userData: userData}
}

type fnProvider struct {
	fn       ResizeFn
	userData interface{}
}

func (p *fnProvider) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	return p.fn(p.userData, nil, 0, size)
}

func (p *fnProvider) Reallocate(block []byte, newSize int) []byte {
	if block == nil {
		return p.Allocate(newSize)
	}
	if newSize <= 0 {
		p.fn(p.userData, block, len(block), 0)
		return nil
	}
	return p.fn(p.userData, block, len(block), newSize)
}

func (p *fnProvider) Release(block []byte) {
	if block == nil {
		return
	}
	p.fn(p.userData, block, len(block), 0)
}

// --- Standard provider -----------------------------------------------------

// Standard returns a provider over Go-managed blocks. It never fails for
// positive sizes.
func Standard() Provider {
	return stdProvider{}
}

type stdProvider struct{}

func (stdProvider) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	return make([]byte, size)
}

func (stdProvider) Reallocate(block []byte, newSize int) []byte {
	if block == nil {
		return stdProvider{}.Allocate(newSize)
	}
	if newSize <= 0 {
		return nil
	}
	if newSize == len(block) {
		return block
	}
	resized := make([]byte, newSize)
	copy(resized, block) // copies min(old, new) bytes
	return resized
}

func (stdProvider) Release([]byte) {}

// StandardResizeFn is the ResizeFn equivalent of Standard, for embedders
// that want a callback to start from.
func StandardResizeFn(_ interface{}, block []byte, _, newSize int) []byte {
	switch {
	case block == nil && newSize > 0:
		return make([]byte, newSize)
	case block != nil && newSize > 0:
		resized := make([]byte, newSize)
		copy(resized, block)
		return resized
	}
	return nil // release or invalid
}
