package buffer

// component is one child slice of a composite buffer: {child_buffer,
// offset, length, adjustment} from spec.md §4.1. childBase is the
// "adjustment": the child's own index corresponding to this component's
// logical offset 0.
type component struct {
	buf       Buf
	offset    int // composite-level starting offset
	length    int // bytes this component contributes
	childBase int // child index corresponding to offset 0 of this component
}

// compositeBuf is an ordered sequence of child buffer slices, addressed as
// one contiguous logical range. Reads and writes walk components left to
// right, issuing one child access per segment crossed.
type compositeBuf struct {
	refCounted
	indices
	primitiveAccessor
	relativeAccessor

	components []*component
	total      int
}

func newCompositeBuf(maxCapacity int) *compositeBuf {
	c := &compositeBuf{indices: newIndices(maxCapacity)}
	c.primitiveAccessor = primitiveAccessor{byteAccess: c}
	c.relativeAccessor = relativeAccessor{cursorBuf: c}
	c.refCounted = newRefCounted(func() {
		for _, comp := range c.components {
			_ = comp.buf.Release()
		}
		c.components = nil
	})
	return c
}

// NewComposite returns an empty composite buffer bounded by maxCapacity.
func NewComposite(maxCapacity int) CompositeBuf { return newCompositeBuf(maxCapacity) }

func (c *compositeBuf) Capacity() int         { return c.total }
func (c *compositeBuf) WritableBytes() int    { return c.total - c.writerIndex }
func (c *compositeBuf) IsWritable() bool      { return c.total > c.writerIndex }
func (c *compositeBuf) HasMemoryAddress() bool { return false }

func (c *compositeBuf) SetWriterIndex(index int) error {
	return c.indices.SetWriterIndex(index, c.total)
}
func (c *compositeBuf) SetIndex(readerIndex, writerIndex int) error {
	return c.indices.SetIndex(readerIndex, writerIndex, c.total)
}
func (c *compositeBuf) ResetWriterIndex() error { return c.indices.ResetWriterIndex(c.total) }

// EnsureWritable never grows a composite buffer implicitly: capacity comes
// only from AddComponent. It fails with ErrBufferOverflow rather than
// silently doing nothing when the request cannot be satisfied.
func (c *compositeBuf) EnsureWritable(n int) error {
	if err := c.checkAccessible(); err != nil {
		return err
	}
	if c.WritableBytes() >= n {
		return nil
	}
	return ErrBufferOverflow
}

func (c *compositeBuf) recomputeOffsets() {
	off := 0
	for _, comp := range c.components {
		comp.offset = off
		off += comp.length
	}
}

func (c *compositeBuf) NumComponents() int { return len(c.components) }

func (c *compositeBuf) AddComponent(increaseWriterIndex bool, child Buf) error {
	if err := c.checkAccessible(); err != nil {
		return err
	}
	if err := child.Retain(); err != nil {
		return err
	}
	length := child.ReadableBytes()
	c.components = append(c.components, &component{
		buf:       child,
		offset:    c.total,
		length:    length,
		childBase: child.ReaderIndex(),
	})
	c.total += length
	if increaseWriterIndex {
		c.writerIndex += length
	}
	return nil
}

func (c *compositeBuf) RemoveComponent(i int) error {
	if err := c.checkAccessible(); err != nil {
		return err
	}
	if i < 0 || i >= len(c.components) {
		return ErrIndexOutOfRange
	}
	comp := c.components[i]
	if err := comp.buf.Release(); err != nil {
		return err
	}
	c.components = append(c.components[:i], c.components[i+1:]...)
	c.total -= comp.length
	if c.writerIndex > c.total {
		c.writerIndex = c.total
	}
	if c.readerIndex > c.writerIndex {
		c.readerIndex = c.writerIndex
	}
	c.recomputeOffsets()
	return nil
}

func (c *compositeBuf) Consolidate(fromIndex, count int) error {
	if err := c.checkAccessible(); err != nil {
		return err
	}
	if fromIndex < 0 || count < 0 || fromIndex+count > len(c.components) {
		return ErrIndexOutOfRange
	}
	if count <= 1 {
		return nil
	}
	merging := c.components[fromIndex : fromIndex+count]
	total := 0
	for _, comp := range merging {
		total += comp.length
	}
	merged := NewHeap(total, total)
	offset := 0
	for _, comp := range merging {
		tmp := make([]byte, comp.length)
		if err := comp.buf.GetBytes(comp.childBase, tmp); err != nil {
			return err
		}
		if err := merged.SetBytes(offset, tmp); err != nil {
			return err
		}
		offset += comp.length
		if err := comp.buf.Release(); err != nil {
			return err
		}
	}
	_ = merged.SetWriterIndex(total)

	newComp := &component{buf: merged, length: total, childBase: 0, offset: merging[0].offset}
	tail := append([]*component{}, c.components[fromIndex+count:]...)
	head := append([]*component{}, c.components[:fromIndex]...)
	c.components = append(append(head, newComp), tail...)
	c.recomputeOffsets()
	return nil
}

// walk locates every component overlapping [index, index+length) and
// invokes fn once per segment with the child's own index and the segment
// length, left to right.
func (c *compositeBuf) walk(index, length int, fn func(child Buf, childIndex, segLen int) error) error {
	if err := c.checkAccessible(); err != nil {
		return err
	}
	if err := checkGetIndex(index, length, c.total); err != nil {
		return err
	}
	pos, remaining := index, length
	for _, comp := range c.components {
		if remaining == 0 {
			break
		}
		if pos >= comp.offset+comp.length {
			continue
		}
		within := pos - comp.offset
		segLen := comp.length - within
		if segLen > remaining {
			segLen = remaining
		}
		if err := fn(comp.buf, comp.childBase+within, segLen); err != nil {
			return err
		}
		pos += segLen
		remaining -= segLen
	}
	if remaining != 0 {
		return ErrIndexOutOfRange
	}
	return nil
}

func (c *compositeBuf) GetBytes(index int, dst []byte) error {
	off := 0
	return c.walk(index, len(dst), func(child Buf, ci, sl int) error {
		if err := child.GetBytes(ci, dst[off:off+sl]); err != nil {
			return err
		}
		off += sl
		return nil
	})
}

func (c *compositeBuf) SetBytes(index int, src []byte) error {
	off := 0
	return c.walk(index, len(src), func(child Buf, ci, sl int) error {
		if err := child.SetBytes(ci, src[off:off+sl]); err != nil {
			return err
		}
		off += sl
		return nil
	})
}

func (c *compositeBuf) SetZero(index, length int) error {
	return c.walk(index, length, func(child Buf, ci, sl int) error {
		return child.SetZero(ci, sl)
	})
}

func (c *compositeBuf) GetBuf(index int, dst Buf, dstIndex, length int) error {
	tmp := make([]byte, length)
	if err := c.GetBytes(index, tmp); err != nil {
		return err
	}
	return dst.SetBytes(dstIndex, tmp)
}

func (c *compositeBuf) SetBuf(index int, src Buf, srcIndex, length int) error {
	tmp := make([]byte, length)
	if err := src.GetBytes(srcIndex, tmp); err != nil {
		return err
	}
	return c.SetBytes(index, tmp)
}

func (c *compositeBuf) Copy(index, length int) (Buf, error) {
	tmp := make([]byte, length)
	if err := c.GetBytes(index, tmp); err != nil {
		return nil, err
	}
	cp := NewHeap(length, length)
	_, _ = cp.WriteBytes(tmp)
	return cp, nil
}

// Slice returns a new composite buffer whose components are zero-copy
// retained slices of this buffer's children covering [index, index+length).
func (c *compositeBuf) Slice(index, length int) (Buf, error) {
	if err := checkGetIndex(index, length, c.total); err != nil {
		return nil, err
	}
	result := newCompositeBuf(length)
	err := c.walk(index, length, func(child Buf, ci, sl int) error {
		sub, err := child.RetainedSlice(ci, sl)
		if err != nil {
			return err
		}
		if err := result.AddComponent(true, sub); err != nil {
			_ = sub.Release()
			return err
		}
		return sub.Release()
	})
	if err != nil {
		_ = result.Release()
		return nil, err
	}
	return result, nil
}

func (c *compositeBuf) RetainedSlice(index, length int) (Buf, error) {
	d, err := c.Slice(index, length)
	if err != nil {
		return nil, err
	}
	if err := d.Retain(); err != nil {
		return nil, err
	}
	return d, nil
}

// Duplicate returns a new composite buffer spanning this buffer's full
// capacity, with reader/writer cursors copied from this buffer's current
// position but mutated independently afterward.
func (c *compositeBuf) Duplicate() (Buf, error) {
	d, err := c.Slice(0, c.total)
	if err != nil {
		return nil, err
	}
	if err := d.SetIndex(c.readerIndex, c.writerIndex); err != nil {
		_ = d.Release()
		return nil, err
	}
	return d, nil
}

func (c *compositeBuf) RetainedDuplicate() (Buf, error) {
	d, err := c.Duplicate()
	if err != nil {
		return nil, err
	}
	if err := d.Retain(); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *compositeBuf) DiscardReadBytes() error {
	if err := c.checkAccessible(); err != nil {
		return err
	}
	n := c.indices.discardReadBytes()
	remaining := n
	for remaining > 0 && len(c.components) > 0 {
		comp := c.components[0]
		if comp.length <= remaining {
			remaining -= comp.length
			_ = comp.buf.Release()
			c.components = c.components[1:]
			c.total -= comp.length
			continue
		}
		comp.childBase += remaining
		comp.length -= remaining
		c.total -= remaining
		remaining = 0
	}
	c.recomputeOffsets()
	return nil
}
