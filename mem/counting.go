package mem

// Counting wraps a provider and keeps account of the blocks and bytes
// currently live. It optionally injects allocation failures, which makes it
// the tool of choice for leak and degradation tests, but it is just as
// usable for embedders that want to enforce a memory budget.
type Counting struct {
	inner  Provider
	blocks int
	bytes  int64
	allocs int
	// FailAfter injects failure: allocation number FailAfter+1 and all
	// following ones return nil. Negative means never fail.
	FailAfter int
	// Limit caps the number of live bytes; 0 means no cap.
	Limit int64
}

// NewCounting wraps inner with accounting.
func NewCounting(inner Provider) *Counting {
	return &Counting{inner: inner, FailAfter: -1}
}

// Blocks returns the number of live blocks.
func (c *Counting) Blocks() int { return c.blocks }

// Bytes returns the number of live bytes.
func (c *Counting) Bytes() int64 { return c.bytes }

// Allocations returns the total number of successful allocations, including
// reallocations that produced a new block.
func (c *Counting) Allocations() int { return c.allocs }

func (c *Counting) admits(extra int) bool {
	if c.FailAfter >= 0 && c.allocs >= c.FailAfter {
		return false
	}
	if c.Limit > 0 && c.bytes+int64(extra) > c.Limit {
		return false
	}
	return true
}

// Allocate implements Provider.
func (c *Counting) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	if !c.admits(size) {
		tracer().Infof("counting provider denies %d bytes, %d live", size, c.bytes)
		return nil
	}
	block := c.inner.Allocate(size)
	if block == nil {
		tracer().Errorf("inner provider failed for %d bytes", size)
		return nil
	}
	c.blocks++
	c.bytes += int64(size)
	c.allocs++
	return block
}

// Reallocate implements Provider.
func (c *Counting) Reallocate(block []byte, newSize int) []byte {
	if block == nil {
		return c.Allocate(newSize)
	}
	if newSize <= 0 {
		c.Release(block)
		return nil
	}
	if !c.admits(newSize - len(block)) {
		tracer().Infof("counting provider denies resize %d -> %d bytes", len(block), newSize)
		return nil
	}
	resized := c.inner.Reallocate(block, newSize)
	if resized == nil {
		tracer().Errorf("inner provider failed to resize %d -> %d bytes", len(block), newSize)
		return nil
	}
	c.bytes += int64(newSize - len(block))
	c.allocs++
	return resized
}

// Release implements Provider.
func (c *Counting) Release(block []byte) {
	if block == nil {
		return
	}
	c.bytes -= int64(len(block))
	c.blocks--
	c.inner.Release(block)
}
