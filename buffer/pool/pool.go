// Package pool recycles byte-slice backing storage behind a buffer.Allocator,
// the same sync.Pool-per-size-class idiom the transport layer uses for its
// frame scratch buffers (see websocket.Options' flateReaderPool/
// flateWriterPool in the wider go-netty stack).
package pool

import (
	"sync"

	"github.com/go-netty/go-netty-codec-core/buffer"
)

// sizeClasses mirrors the common power-of-two bucketing used by byte-slice
// pools: a request is rounded up to the smallest class that fits it, so the
// pool only ever hands back a small, bounded number of distinct capacities.
var sizeClasses = []int{256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536}

func classFor(n int) int {
	for _, c := range sizeClasses {
		if n <= c {
			return c
		}
	}
	return n
}

// Pool recycles Buf backing arrays by size class. It wraps an Allocator:
// Get returns a buffer sized to the requested capacity (rounded up to the
// nearest class) drawn from a per-class sync.Pool when available, and Put
// hands a still-live buffer back for reuse. A released buffer reports
// capacity 0, so Put does not pool it.
type Pool struct {
	alloc   buffer.Allocator
	classes map[int]*sync.Pool
}

// New builds a Pool that allocates misses through alloc.
func New(alloc buffer.Allocator) *Pool {
	p := &Pool{alloc: alloc, classes: make(map[int]*sync.Pool, len(sizeClasses))}
	for _, c := range sizeClasses {
		class := c
		p.classes[class] = &sync.Pool{
			New: func() interface{} {
				return p.alloc.BufferWithMax(class, buffer.DefaultMaxCapacity)
			},
		}
	}
	return p
}

// Get returns a buffer with at least capacity bytes available to write,
// reusing a pooled instance when one of the right size class is idle.
func (p *Pool) Get(capacity int) buffer.Buf {
	class := classFor(capacity)
	pl, ok := p.classes[class]
	if !ok {
		return p.alloc.BufferWithMax(capacity, buffer.DefaultMaxCapacity)
	}
	buf := pl.Get().(buffer.Buf)
	_ = buf.SetIndex(0, 0)
	return buf
}

// Put returns buf to its size class pool for reuse when its capacity is
// exactly one of the size classes; any other buffer is dropped. Callers
// must not use buf after calling Put. Put does not change buf's reference
// count.
func (p *Pool) Put(buf buffer.Buf) {
	class := classFor(buf.Capacity())
	if pl, ok := p.classes[class]; ok && buf.Capacity() == class {
		pl.Put(buf)
	}
}
