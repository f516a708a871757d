package buffer

import "sync/atomic"

// refCounted implements the lock-free, CAS-based reference counting
// described in spec.md §4.1. It is embedded by every concrete buffer
// variant; deallocate is supplied by the embedder and invoked exactly once,
// at the transition from 1 to 0.
type refCounted struct {
	count      int32
	deallocate func()
}

func newRefCounted(deallocate func()) refCounted {
	return refCounted{count: 1, deallocate: deallocate}
}

// ReferenceCount returns the current count. A concurrent Release racing
// this load may make the result stale the instant it is read; callers that
// need a linearizable accessibility check should rely on the error returned
// from the operation itself, not on this value.
func (r *refCounted) ReferenceCount() int32 {
	return atomic.LoadInt32(&r.count)
}

func (r *refCounted) checkAccessible() error {
	if atomic.LoadInt32(&r.count) <= 0 {
		return ErrIllegalReferenceCount
	}
	return nil
}

// Retain increments the count by one.
func (r *refCounted) Retain() error {
	return r.RetainN(1)
}

// RetainN increments the count by n. It fails with ErrIllegalReferenceCount
// if the buffer is already dead (resurrection) or if n would overflow the
// counter (detected the same way the source does: the new total coming out
// no greater than the increment itself signals a wrapped int32).
func (r *refCounted) RetainN(n int32) error {
	if n <= 0 {
		return ErrIllegalReferenceCount
	}
	for {
		cur := atomic.LoadInt32(&r.count)
		if cur <= 0 {
			return ErrIllegalReferenceCount
		}
		next := cur + n
		if next <= n {
			// overflow: wrapped past math.MaxInt32
			return ErrIllegalReferenceCount
		}
		if atomic.CompareAndSwapInt32(&r.count, cur, next) {
			return nil
		}
	}
}

// Release decrements the count by one.
func (r *refCounted) Release() error {
	_, err := r.ReleaseN(1)
	return err
}

// ReleaseN decrements the count by n, deallocating exactly once if the
// count reaches zero. The returned bool reports whether this call was the
// one that crossed to zero.
func (r *refCounted) ReleaseN(n int32) (bool, error) {
	if n <= 0 {
		return false, ErrIllegalReferenceCount
	}
	for {
		cur := atomic.LoadInt32(&r.count)
		if cur < n {
			return false, ErrIllegalReferenceCount
		}
		next := cur - n
		if atomic.CompareAndSwapInt32(&r.count, cur, next) {
			if next == 0 {
				if r.deallocate != nil {
					r.deallocate()
				}
				return true, nil
			}
			return false, nil
		}
	}
}

// setReferenceCount is the unsafe, absolute escape hatch for subclass
// initialisation paths. Nothing in this package calls it, and it is not
// part of the user-facing Buf contract.
func (r *refCounted) setReferenceCount(v int32) {
	atomic.StoreInt32(&r.count, v)
}

// resetReferenceCount is the unsafe escape hatch that restores the count to
// its initial value of 1.
func (r *refCounted) resetReferenceCount() {
	atomic.StoreInt32(&r.count, 1)
}
