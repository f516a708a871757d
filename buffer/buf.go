// Package buffer implements a polymorphic, reference-counted, random-access
// byte container. It is the foundation the httpcodec and websocket packages
// build on: every payload that moves through a pipeline stage is a Buf, and
// every stage is responsible for retaining what it forwards and releasing
// what it consumes.
package buffer

import (
	"context"
	"io"
)

// Buf is the capability set shared by every buffer variant: heap-backed,
// direct, composite, and derived (slice/duplicate) buffers all implement it
// behind the same interface, plus the read-only and unreleasable wrappers.
//
// A Buf is single-threaded by convention: the pipeline that owns it does not
// invoke it concurrently. Only Retain/Release are safe to call from any
// goroutine, since buffers may cross event-loop boundaries while still
// referenced by their original owner.
type Buf interface {
	// Capacity returns the number of bytes this buffer currently occupies.
	Capacity() int
	// MaxCapacity returns the capacity ceiling EnsureWritable will not cross.
	MaxCapacity() int

	ReaderIndex() int
	WriterIndex() int
	SetReaderIndex(index int) error
	SetWriterIndex(index int) error
	SetIndex(readerIndex, writerIndex int) error

	ReadableBytes() int
	WritableBytes() int
	IsReadable() bool
	IsWritable() bool

	MarkReaderIndex()
	ResetReaderIndex() error
	MarkWriterIndex()
	ResetWriterIndex() error

	// DiscardReadBytes compacts the buffer, moving [readerIndex,writerIndex)
	// to the front and adjusting both indices and marks accordingly.
	DiscardReadBytes() error
	// EnsureWritable grows the buffer, if necessary and possible, so that
	// at least n more bytes can be written without exceeding MaxCapacity.
	EnsureWritable(n int) error

	// Absolute primitive access. None of these move reader/writer indices.
	GetUint8(index int) (uint8, error)
	GetInt8(index int) (int8, error)
	SetUint8(index int, v uint8) error
	SetInt8(index int, v int8) error

	GetUint16BE(index int) (uint16, error)
	GetUint16LE(index int) (uint16, error)
	GetInt16BE(index int) (int16, error)
	GetInt16LE(index int) (int16, error)
	SetUint16BE(index int, v uint16) error
	SetUint16LE(index int, v uint16) error
	SetInt16BE(index int, v int16) error
	SetInt16LE(index int, v int16) error

	// GetMedium{BE,LE} read a 24-bit field zero-extended into a uint32.
	GetMediumBE(index int) (uint32, error)
	GetMediumLE(index int) (uint32, error)
	SetMediumBE(index int, v uint32) error
	SetMediumLE(index int, v uint32) error

	GetUint32BE(index int) (uint32, error)
	GetUint32LE(index int) (uint32, error)
	GetInt32BE(index int) (int32, error)
	GetInt32LE(index int) (int32, error)
	SetUint32BE(index int, v uint32) error
	SetUint32LE(index int, v uint32) error
	SetInt32BE(index int, v int32) error
	SetInt32LE(index int, v int32) error

	GetUint64BE(index int) (uint64, error)
	GetUint64LE(index int) (uint64, error)
	GetInt64BE(index int) (int64, error)
	GetInt64LE(index int) (int64, error)
	SetUint64BE(index int, v uint64) error
	SetUint64LE(index int, v uint64) error
	SetInt64BE(index int, v int64) error
	SetInt64LE(index int, v int64) error

	// GetBytes/SetBytes are the absolute bulk accessors against a raw slice.
	GetBytes(index int, dst []byte) error
	SetBytes(index int, src []byte) error
	// GetBuf/SetBuf are the absolute bulk accessors against another Buf.
	GetBuf(index int, dst Buf, dstIndex, length int) error
	SetBuf(index int, src Buf, srcIndex, length int) error

	// Relative primitive access, consuming from/appending to the
	// reader/writer cursors respectively.
	ReadUint8() (uint8, error)
	ReadInt8() (int8, error)
	WriteUint8(v uint8) error
	WriteInt8(v int8) error
	ReadUint16BE() (uint16, error)
	ReadUint16LE() (uint16, error)
	ReadInt16BE() (int16, error)
	ReadInt16LE() (int16, error)
	WriteUint16BE(v uint16) error
	WriteUint16LE(v uint16) error
	WriteInt16BE(v int16) error
	WriteInt16LE(v int16) error
	ReadMediumBE() (uint32, error)
	ReadMediumLE() (uint32, error)
	WriteMediumBE(v uint32) error
	WriteMediumLE(v uint32) error
	ReadUint32BE() (uint32, error)
	ReadUint32LE() (uint32, error)
	ReadInt32BE() (int32, error)
	ReadInt32LE() (int32, error)
	WriteUint32BE(v uint32) error
	WriteUint32LE(v uint32) error
	WriteInt32BE(v int32) error
	WriteInt32LE(v int32) error
	ReadUint64BE() (uint64, error)
	ReadUint64LE() (uint64, error)
	ReadInt64BE() (int64, error)
	ReadInt64LE() (int64, error)
	WriteUint64BE(v uint64) error
	WriteUint64LE(v uint64) error
	WriteInt64BE(v int64) error
	WriteInt64LE(v int64) error

	// ReadBytes fills dst from the reader cursor, advancing it by len(dst).
	ReadBytes(dst []byte) (int, error)
	// WriteBytes appends src at the writer cursor, advancing it by len(src),
	// growing the buffer (via EnsureWritable) if necessary.
	WriteBytes(src []byte) (int, error)

	// ReadFrom reads up to length bytes from r into the buffer at the
	// writer cursor (the "blocking stream" bulk setter of spec.md §4.1).
	ReadFrom(r io.Reader, length int) (int, error)
	// WriteTo writes up to length bytes from the reader cursor to w (the
	// "blocking stream" bulk getter).
	WriteTo(w io.Writer, length int) (int, error)
	// SetBytesAsync is the async-stream bulk setter. The current
	// implementation completes synchronously before returning (no
	// executor is wired into this core), but threads ctx through so a
	// future scheduler-backed implementation can honor cancellation
	// without an API break; cancelling ctx after partial transfer leaves
	// the partial write observable, per spec.md §5.
	SetBytesAsync(ctx context.Context, r io.Reader, length int) (int, error)

	SetZero(index, length int) error
	WriteZero(length int) error

	// Copy returns a brand-new, independent buffer holding a copy of
	// [index, index+length).
	Copy(index, length int) (Buf, error)
	// Slice returns a derived buffer sharing storage with this one over
	// [index, index+length), with its own independent reader/writer
	// cursors initialized to [0, length).
	Slice(index, length int) (Buf, error)
	// Duplicate returns a derived buffer sharing storage and the full
	// capacity of this one, with cursors initialized to this buffer's
	// current reader/writer indices but mutated independently afterward.
	Duplicate() (Buf, error)
	// RetainedSlice is Slice plus an extra explicit Retain on the result,
	// for callers that want a reference independent of this buffer's
	// lifetime rather than one scoped to it.
	RetainedSlice(index, length int) (Buf, error)
	// RetainedDuplicate is Duplicate plus an extra explicit Retain.
	RetainedDuplicate() (Buf, error)

	// HasMemoryAddress reports whether a stable pointer to the backing
	// storage is obtainable (true for direct buffers on platforms where
	// pinning succeeds, always false for heap/composite buffers).
	HasMemoryAddress() bool

	// ReferenceCount returns the current reference count. 0 means the
	// buffer has been deallocated and every other method will fail.
	ReferenceCount() int32
	// Retain increments the reference count by one.
	Retain() error
	// RetainN increments the reference count by n.
	RetainN(n int32) error
	// Release decrements the reference count by one, deallocating the
	// buffer if it reaches zero.
	Release() error
	// ReleaseN decrements the reference count by n.
	ReleaseN(n int32) (bool, error)
}

// CompositeBuf is the capability set added by a composite buffer on top of
// Buf: management of the ordered list of child components.
type CompositeBuf interface {
	Buf

	// AddComponent appends child as a new component. If
	// increaseWriterIndex is true, the composite's writer index grows by
	// child.ReadableBytes(). The composite takes a reference on child
	// (Retain) and releases it when the component is removed or the
	// composite is deallocated.
	AddComponent(increaseWriterIndex bool, child Buf) error
	// NumComponents returns the number of child components.
	NumComponents() int
	// RemoveComponent releases and removes the component at index i.
	RemoveComponent(i int) error
	// Consolidate merges count components starting at fromIndex into a
	// single freshly allocated buffer, releasing the originals.
	Consolidate(fromIndex, count int) error
}

// Allocator is the external collaborator that manufactures buffers, per
// spec.md §6.
type Allocator interface {
	// Buffer returns a new heap-backed buffer with the given initial
	// capacity and an unbounded (MaxInt32) max capacity.
	Buffer(initialCapacity int) Buf
	// BufferWithMax returns a new heap-backed buffer bounded by maxCapacity.
	BufferWithMax(initialCapacity, maxCapacity int) Buf
	// DirectBuffer returns a new direct buffer with the given initial
	// capacity and an unbounded (MaxInt32) max capacity.
	DirectBuffer(initialCapacity int) Buf
	// CompositeBuffer returns a new, empty composite buffer.
	CompositeBuffer() CompositeBuf
	// CompositeDirectBuffer returns a new, empty composite buffer whose
	// components are expected to be direct buffers (the allocator used by
	// the websocket deflate decoder when reconstructing payloads).
	CompositeDirectBuffer() CompositeBuf
}
