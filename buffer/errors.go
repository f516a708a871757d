package buffer

import "errors"

// Sentinel errors returned by the buffer engine. Callers should compare
// with errors.Is; the error kinds mirror the ones enumerated in the
// parent framework's error taxonomy so pipeline stages can route them
// through exception_caught without inspecting message text.
var (
	// ErrIndexOutOfRange is returned whenever an access would touch a byte
	// outside [0, capacity) or would violate 0 <= readerIndex <= writerIndex <= capacity.
	ErrIndexOutOfRange = errors.New("buffer: index out of range")

	// ErrIllegalReferenceCount is returned by any access on a buffer whose
	// reference count has reached zero, and by Retain/Release calls that
	// would resurrect a dead buffer or release more references than held.
	ErrIllegalReferenceCount = errors.New("buffer: illegal reference count")

	// ErrBufferOverflow is returned when a write or EnsureWritable call
	// would grow a buffer past its max capacity.
	ErrBufferOverflow = errors.New("buffer: buffer overflow")

	// ErrReadOnly is returned by any mutating call on a read-only wrapper.
	ErrReadOnly = errors.New("buffer: buffer is read-only")
)
