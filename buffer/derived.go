package buffer

// derivedBuf is a slice or duplicate: storage is shared with an ancestor,
// and for as long as the derived buffer is alive it holds one reference on
// that ancestor (acquired at construction, released on deallocation), per
// spec.md §3 "Ownership". It reuses heapBuf's full primitive/bulk-access
// implementation over the shared window, so it needs no logic of its own
// beyond bookkeeping the parent reference and exposing it for introspection.
type derivedBuf struct {
	*heapBuf
	parent Buf
}

// newDerived builds a derived buffer over shared (a window into parent's
// backing array), retaining parent for the derived buffer's lifetime.
// maxCapacity bounds how far EnsureWritable may grow the derived buffer;
// growing past len(shared) always reallocates a private backing array
// (severing the share), so Slice() callers get maxCapacity == len(shared)
// to keep that from happening silently.
func newDerived(parent Buf, shared []byte, readerIndex, writerIndex, maxCapacity int) (Buf, error) {
	if err := parent.Retain(); err != nil {
		return nil, err
	}
	hb := &heapBuf{
		indices: newIndices(maxCapacity),
		data:    shared,
	}
	hb.readerIndex = readerIndex
	hb.writerIndex = writerIndex
	hb.refCounted = newRefCounted(func() {
		hb.data = nil
		_ = parent.Release()
	})
	return &derivedBuf{heapBuf: hb, parent: parent}, nil
}

// Parent returns the buffer this derived buffer shares storage with.
func (d *derivedBuf) Parent() Buf { return d.parent }
