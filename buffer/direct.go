package buffer

import "unsafe"

// directBuf is the "direct" variant from spec.md §4.1: a buffer whose
// backing storage reports a stable memory address via HasMemoryAddress/
// MemoryAddress, for callers doing vectored syscalls or cgo interop. Go has
// no cgo-free pinned allocation, so directBuf keeps its data in an ordinary
// []byte and reports the address of its first byte; callers must not hold
// that address across any call that could grow the slice (EnsureWritable
// may reallocate, invalidating it), which is why MemoryAddress re-derives
// the pointer on every call rather than caching it.
type directBuf struct {
	*heapBuf
}

// NewDirect allocates a direct buffer with capacity initialCapacity and no
// bytes written yet, same contract as NewHeap. Unlike NewHeap's result,
// callers can obtain a stable pointer to the current backing array via
// MemoryAddress for the duration between reallocating mutations.
func NewDirect(initialCapacity, maxCapacity int) Buf {
	hb := &heapBuf{
		indices: newIndices(maxCapacity),
		data:    make([]byte, initialCapacity),
	}
	hb.refCounted = newRefCounted(func() { hb.data = nil })
	return &directBuf{heapBuf: hb}
}

func (d *directBuf) HasMemoryAddress() bool { return len(d.data) > 0 || cap(d.data) > 0 }

// MemoryAddress returns a pointer to the backing array's first byte. It
// returns nil if the buffer has never allocated storage (cap == 0). The
// pointer is only valid until the next mutation that can reallocate.
func (d *directBuf) MemoryAddress() unsafe.Pointer {
	if cap(d.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&d.data[:1][0])
}

// Slice returns an ordinary (non-direct) derived buffer: a slice's window
// is fixed-length and never reallocates, but it no longer owns a full
// backing array worth exposing a MemoryAddress for.
