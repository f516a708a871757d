package buffer

import (
	"context"
	"io"
)

// readOnlyBuf rejects every mutating call while delegating everything else
// to the wrapped buffer. It does not copy storage: Get* calls see whatever
// the wrapped buffer currently holds.
type readOnlyBuf struct {
	Buf
}

// NewReadOnly wraps buf so that every mutating operation fails with
// ErrReadOnly. The wrapper does not retain buf; callers that need the
// wrapper to outlive the call site should Retain the underlying buffer
// themselves.
func NewReadOnly(buf Buf) Buf { return &readOnlyBuf{Buf: buf} }

func (r *readOnlyBuf) SetUint8(int, uint8) error     { return ErrReadOnly }
func (r *readOnlyBuf) SetInt8(int, int8) error       { return ErrReadOnly }
func (r *readOnlyBuf) SetUint16BE(int, uint16) error { return ErrReadOnly }
func (r *readOnlyBuf) SetUint16LE(int, uint16) error { return ErrReadOnly }
func (r *readOnlyBuf) SetInt16BE(int, int16) error   { return ErrReadOnly }
func (r *readOnlyBuf) SetInt16LE(int, int16) error   { return ErrReadOnly }
func (r *readOnlyBuf) SetMediumBE(int, uint32) error { return ErrReadOnly }
func (r *readOnlyBuf) SetMediumLE(int, uint32) error { return ErrReadOnly }
func (r *readOnlyBuf) SetUint32BE(int, uint32) error { return ErrReadOnly }
func (r *readOnlyBuf) SetUint32LE(int, uint32) error { return ErrReadOnly }
func (r *readOnlyBuf) SetInt32BE(int, int32) error   { return ErrReadOnly }
func (r *readOnlyBuf) SetInt32LE(int, int32) error   { return ErrReadOnly }
func (r *readOnlyBuf) SetUint64BE(int, uint64) error { return ErrReadOnly }
func (r *readOnlyBuf) SetUint64LE(int, uint64) error { return ErrReadOnly }
func (r *readOnlyBuf) SetInt64BE(int, int64) error   { return ErrReadOnly }
func (r *readOnlyBuf) SetInt64LE(int, int64) error   { return ErrReadOnly }
func (r *readOnlyBuf) SetBytes(int, []byte) error    { return ErrReadOnly }
func (r *readOnlyBuf) SetBuf(int, Buf, int, int) error { return ErrReadOnly }
func (r *readOnlyBuf) SetZero(int, int) error        { return ErrReadOnly }

func (r *readOnlyBuf) WriteUint8(uint8) error       { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt8(int8) error         { return ErrReadOnly }
func (r *readOnlyBuf) WriteUint16BE(uint16) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteUint16LE(uint16) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt16BE(int16) error     { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt16LE(int16) error     { return ErrReadOnly }
func (r *readOnlyBuf) WriteMediumBE(uint32) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteMediumLE(uint32) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteUint32BE(uint32) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteUint32LE(uint32) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt32BE(int32) error     { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt32LE(int32) error     { return ErrReadOnly }
func (r *readOnlyBuf) WriteUint64BE(uint64) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteUint64LE(uint64) error   { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt64BE(int64) error     { return ErrReadOnly }
func (r *readOnlyBuf) WriteInt64LE(int64) error     { return ErrReadOnly }
func (r *readOnlyBuf) WriteBytes([]byte) (int, error) { return 0, ErrReadOnly }
func (r *readOnlyBuf) WriteZero(int) error          { return ErrReadOnly }
func (r *readOnlyBuf) EnsureWritable(int) error     { return ErrReadOnly }
func (r *readOnlyBuf) DiscardReadBytes() error      { return ErrReadOnly }
func (r *readOnlyBuf) ReadFrom(io.Reader, int) (int, error) { return 0, ErrReadOnly }
func (r *readOnlyBuf) SetBytesAsync(context.Context, io.Reader, int) (int, error) {
	return 0, ErrReadOnly
}

func (r *readOnlyBuf) Slice(index, length int) (Buf, error) {
	inner, err := r.Buf.Slice(index, length)
	if err != nil {
		return nil, err
	}
	return &readOnlyBuf{Buf: inner}, nil
}
func (r *readOnlyBuf) RetainedSlice(index, length int) (Buf, error) {
	inner, err := r.Buf.RetainedSlice(index, length)
	if err != nil {
		return nil, err
	}
	return &readOnlyBuf{Buf: inner}, nil
}
func (r *readOnlyBuf) Duplicate() (Buf, error) {
	inner, err := r.Buf.Duplicate()
	if err != nil {
		return nil, err
	}
	return &readOnlyBuf{Buf: inner}, nil
}
func (r *readOnlyBuf) RetainedDuplicate() (Buf, error) {
	inner, err := r.Buf.RetainedDuplicate()
	if err != nil {
		return nil, err
	}
	return &readOnlyBuf{Buf: inner}, nil
}

// unreleasableBuf intercepts Release/ReleaseN so the wrapped buffer's
// reference count never drops through this handle: every release call
// succeeds as a no-op instead of forwarding to the wrapped buffer. Retain
// still forwards normally. This is used to hand a buffer to code that must
// not be able to drop the last reference (e.g. a caller-supplied callback).
type unreleasableBuf struct {
	Buf
}

// NewUnreleasable wraps buf so Release/ReleaseN through the wrapper never
// reach the wrapped buffer.
func NewUnreleasable(buf Buf) Buf { return &unreleasableBuf{Buf: buf} }

func (u *unreleasableBuf) Release() error               { return nil }
func (u *unreleasableBuf) ReleaseN(int32) (bool, error) { return false, nil }
