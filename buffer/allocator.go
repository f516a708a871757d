package buffer

import "math"

// DefaultMaxCapacity is used by allocator methods that don't take an
// explicit maxCapacity, matching Netty's unbounded-growth default.
const DefaultMaxCapacity = math.MaxInt32

// heapAllocator is the default Allocator: every Buffer call returns a heap
// buffer, composite calls return a compositeBuf. There is no pooling here;
// pool.Pool (buffer/pool) sits in front of an Allocator for callers that
// want recycled backing arrays.
type heapAllocator struct{}

// NewAllocator returns the default Allocator.
func NewAllocator() Allocator { return heapAllocator{} }

func (heapAllocator) Buffer(initialCapacity int) Buf {
	return NewHeap(initialCapacity, DefaultMaxCapacity)
}

func (heapAllocator) BufferWithMax(initialCapacity, maxCapacity int) Buf {
	return NewHeap(initialCapacity, maxCapacity)
}

func (heapAllocator) DirectBuffer(initialCapacity int) Buf {
	return NewDirect(initialCapacity, DefaultMaxCapacity)
}

func (heapAllocator) CompositeBuffer() CompositeBuf {
	return NewComposite(DefaultMaxCapacity)
}

// CompositeDirectBuffer returns a composite buffer intended to hold direct
// components; unlike CompositeBuffer, its children are expected to come
// from DirectBuffer (see websocket.DeflateDecoder, which allocates its
// decompressed components this way before adding them).
func (heapAllocator) CompositeDirectBuffer() CompositeBuf {
	return NewComposite(DefaultMaxCapacity)
}

var defaultAllocator = NewAllocator()

// Default returns the package-wide default Allocator. Code that needs a
// specific pool or direct-memory strategy should take an Allocator as a
// dependency instead of calling this.
func Default() Allocator { return defaultAllocator }
