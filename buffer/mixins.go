package buffer

import (
	"context"
	"io"
)

// byteAccess is the minimal capability a primitiveAccessor needs: absolute
// bulk get/set against a raw slice. heapBuf implements these directly on
// its backing array; compositeBuf implements them by walking components.
type byteAccess interface {
	GetBytes(index int, dst []byte) error
	SetBytes(index int, src []byte) error
}

// primitiveAccessor implements every absolute typed-primitive accessor of
// Buf in terms of GetBytes/SetBytes, via a small stack scratch array. It
// lets a variant that can only naturally express "copy these bytes"
// (composite) get the entire endian-primitive surface for free, at the
// cost of a scratch-array round trip instead of direct pointer arithmetic.
type primitiveAccessor struct {
	byteAccess
}

func (p primitiveAccessor) GetUint8(index int) (uint8, error) {
	var b [1]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
func (p primitiveAccessor) GetInt8(index int) (int8, error) {
	v, err := p.GetUint8(index)
	return int8(v), err
}
func (p primitiveAccessor) SetUint8(index int, v uint8) error {
	return p.SetBytes(index, []byte{v})
}
func (p primitiveAccessor) SetInt8(index int, v int8) error { return p.SetUint8(index, uint8(v)) }

func (p primitiveAccessor) GetUint16BE(index int) (uint16, error) {
	var b [2]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeUint16BE(b[:]), nil
}
func (p primitiveAccessor) GetUint16LE(index int) (uint16, error) {
	var b [2]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeUint16LE(b[:]), nil
}
func (p primitiveAccessor) GetInt16BE(index int) (int16, error) {
	v, err := p.GetUint16BE(index)
	return int16(v), err
}
func (p primitiveAccessor) GetInt16LE(index int) (int16, error) {
	v, err := p.GetUint16LE(index)
	return int16(v), err
}
func (p primitiveAccessor) SetUint16BE(index int, v uint16) error {
	var b [2]byte
	encodeUint16BE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetUint16LE(index int, v uint16) error {
	var b [2]byte
	encodeUint16LE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetInt16BE(index int, v int16) error { return p.SetUint16BE(index, uint16(v)) }
func (p primitiveAccessor) SetInt16LE(index int, v int16) error { return p.SetUint16LE(index, uint16(v)) }

func (p primitiveAccessor) GetMediumBE(index int) (uint32, error) {
	var b [3]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeMediumBE(b[:]), nil
}
func (p primitiveAccessor) GetMediumLE(index int) (uint32, error) {
	var b [3]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeMediumLE(b[:]), nil
}
func (p primitiveAccessor) SetMediumBE(index int, v uint32) error {
	var b [3]byte
	encodeMediumBE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetMediumLE(index int, v uint32) error {
	var b [3]byte
	encodeMediumLE(b[:], v)
	return p.SetBytes(index, b[:])
}

func (p primitiveAccessor) GetUint32BE(index int) (uint32, error) {
	var b [4]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeUint32BE(b[:]), nil
}
func (p primitiveAccessor) GetUint32LE(index int) (uint32, error) {
	var b [4]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeUint32LE(b[:]), nil
}
func (p primitiveAccessor) GetInt32BE(index int) (int32, error) {
	v, err := p.GetUint32BE(index)
	return int32(v), err
}
func (p primitiveAccessor) GetInt32LE(index int) (int32, error) {
	v, err := p.GetUint32LE(index)
	return int32(v), err
}
func (p primitiveAccessor) SetUint32BE(index int, v uint32) error {
	var b [4]byte
	encodeUint32BE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetUint32LE(index int, v uint32) error {
	var b [4]byte
	encodeUint32LE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetInt32BE(index int, v int32) error { return p.SetUint32BE(index, uint32(v)) }
func (p primitiveAccessor) SetInt32LE(index int, v int32) error { return p.SetUint32LE(index, uint32(v)) }

func (p primitiveAccessor) GetUint64BE(index int) (uint64, error) {
	var b [8]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeUint64BE(b[:]), nil
}
func (p primitiveAccessor) GetUint64LE(index int) (uint64, error) {
	var b [8]byte
	if err := p.GetBytes(index, b[:]); err != nil {
		return 0, err
	}
	return decodeUint64LE(b[:]), nil
}
func (p primitiveAccessor) GetInt64BE(index int) (int64, error) {
	v, err := p.GetUint64BE(index)
	return int64(v), err
}
func (p primitiveAccessor) GetInt64LE(index int) (int64, error) {
	v, err := p.GetUint64LE(index)
	return int64(v), err
}
func (p primitiveAccessor) SetUint64BE(index int, v uint64) error {
	var b [8]byte
	encodeUint64BE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetUint64LE(index int, v uint64) error {
	var b [8]byte
	encodeUint64LE(b[:], v)
	return p.SetBytes(index, b[:])
}
func (p primitiveAccessor) SetInt64BE(index int, v int64) error { return p.SetUint64BE(index, uint64(v)) }
func (p primitiveAccessor) SetInt64LE(index int, v int64) error { return p.SetUint64LE(index, uint64(v)) }

// cursorBuf is the capability relativeAccessor needs from its enclosing
// buffer: everything it touches is already part of Buf.
type cursorBuf interface {
	ReaderIndex() int
	WriterIndex() int
	SetReaderIndex(int) error
	SetWriterIndex(int) error
	ReadableBytes() int
	EnsureWritable(int) error
	GetBytes(index int, dst []byte) error
	SetBytes(index int, src []byte) error
	SetZero(index, length int) error
	GetUint8(int) (uint8, error)
	GetInt8(int) (int8, error)
	SetUint8(int, uint8) error
	SetInt8(int, int8) error
	GetUint16BE(int) (uint16, error)
	GetUint16LE(int) (uint16, error)
	GetInt16BE(int) (int16, error)
	GetInt16LE(int) (int16, error)
	SetUint16BE(int, uint16) error
	SetUint16LE(int, uint16) error
	SetInt16BE(int, int16) error
	SetInt16LE(int, int16) error
	GetMediumBE(int) (uint32, error)
	GetMediumLE(int) (uint32, error)
	SetMediumBE(int, uint32) error
	SetMediumLE(int, uint32) error
	GetUint32BE(int) (uint32, error)
	GetUint32LE(int) (uint32, error)
	GetInt32BE(int) (int32, error)
	GetInt32LE(int) (int32, error)
	SetUint32BE(int, uint32) error
	SetUint32LE(int, uint32) error
	SetInt32BE(int, int32) error
	SetInt32LE(int, int32) error
	GetUint64BE(int) (uint64, error)
	GetUint64LE(int) (uint64, error)
	GetInt64BE(int) (int64, error)
	GetInt64LE(int) (int64, error)
	SetUint64BE(int, uint64) error
	SetUint64LE(int, uint64) error
	SetInt64BE(int, int64) error
	SetInt64LE(int, int64) error
}

// relativeAccessor implements the entire Read*/Write* cursor-consuming
// surface of Buf, plus ReadBytes/WriteBytes/ReadFrom/WriteTo/
// SetBytesAsync/WriteZero, purely in terms of the absolute accessors and
// index mutators every Buf already exposes. compositeBuf embeds this so it
// does not need to hand-roll cursor bookkeeping atop its component walk.
type relativeAccessor struct {
	cursorBuf
}

func (r relativeAccessor) readAdvance(n int) error {
	if r.ReadableBytes() < n {
		return ErrIndexOutOfRange
	}
	return nil
}

func (r relativeAccessor) ReadUint8() (uint8, error) {
	if err := r.readAdvance(1); err != nil {
		return 0, err
	}
	v, err := r.GetUint8(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 1)
	}
	return v, err
}
func (r relativeAccessor) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}
func (r relativeAccessor) WriteUint8(v uint8) error {
	if err := r.EnsureWritable(1); err != nil {
		return err
	}
	if err := r.SetUint8(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 1)
}
func (r relativeAccessor) WriteInt8(v int8) error { return r.WriteUint8(uint8(v)) }

func (r relativeAccessor) ReadUint16BE() (uint16, error) {
	if err := r.readAdvance(2); err != nil {
		return 0, err
	}
	v, err := r.GetUint16BE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 2)
	}
	return v, err
}
func (r relativeAccessor) ReadUint16LE() (uint16, error) {
	if err := r.readAdvance(2); err != nil {
		return 0, err
	}
	v, err := r.GetUint16LE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 2)
	}
	return v, err
}
func (r relativeAccessor) ReadInt16BE() (int16, error) {
	v, err := r.ReadUint16BE()
	return int16(v), err
}
func (r relativeAccessor) ReadInt16LE() (int16, error) {
	v, err := r.ReadUint16LE()
	return int16(v), err
}
func (r relativeAccessor) WriteUint16BE(v uint16) error {
	if err := r.EnsureWritable(2); err != nil {
		return err
	}
	if err := r.SetUint16BE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 2)
}
func (r relativeAccessor) WriteUint16LE(v uint16) error {
	if err := r.EnsureWritable(2); err != nil {
		return err
	}
	if err := r.SetUint16LE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 2)
}
func (r relativeAccessor) WriteInt16BE(v int16) error { return r.WriteUint16BE(uint16(v)) }
func (r relativeAccessor) WriteInt16LE(v int16) error { return r.WriteUint16LE(uint16(v)) }

func (r relativeAccessor) ReadMediumBE() (uint32, error) {
	if err := r.readAdvance(3); err != nil {
		return 0, err
	}
	v, err := r.GetMediumBE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 3)
	}
	return v, err
}
func (r relativeAccessor) ReadMediumLE() (uint32, error) {
	if err := r.readAdvance(3); err != nil {
		return 0, err
	}
	v, err := r.GetMediumLE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 3)
	}
	return v, err
}
func (r relativeAccessor) WriteMediumBE(v uint32) error {
	if err := r.EnsureWritable(3); err != nil {
		return err
	}
	if err := r.SetMediumBE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 3)
}
func (r relativeAccessor) WriteMediumLE(v uint32) error {
	if err := r.EnsureWritable(3); err != nil {
		return err
	}
	if err := r.SetMediumLE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 3)
}

func (r relativeAccessor) ReadUint32BE() (uint32, error) {
	if err := r.readAdvance(4); err != nil {
		return 0, err
	}
	v, err := r.GetUint32BE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 4)
	}
	return v, err
}
func (r relativeAccessor) ReadUint32LE() (uint32, error) {
	if err := r.readAdvance(4); err != nil {
		return 0, err
	}
	v, err := r.GetUint32LE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 4)
	}
	return v, err
}
func (r relativeAccessor) ReadInt32BE() (int32, error) {
	v, err := r.ReadUint32BE()
	return int32(v), err
}
func (r relativeAccessor) ReadInt32LE() (int32, error) {
	v, err := r.ReadUint32LE()
	return int32(v), err
}
func (r relativeAccessor) WriteUint32BE(v uint32) error {
	if err := r.EnsureWritable(4); err != nil {
		return err
	}
	if err := r.SetUint32BE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 4)
}
func (r relativeAccessor) WriteUint32LE(v uint32) error {
	if err := r.EnsureWritable(4); err != nil {
		return err
	}
	if err := r.SetUint32LE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 4)
}
func (r relativeAccessor) WriteInt32BE(v int32) error { return r.WriteUint32BE(uint32(v)) }
func (r relativeAccessor) WriteInt32LE(v int32) error { return r.WriteUint32LE(uint32(v)) }

func (r relativeAccessor) ReadUint64BE() (uint64, error) {
	if err := r.readAdvance(8); err != nil {
		return 0, err
	}
	v, err := r.GetUint64BE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 8)
	}
	return v, err
}
func (r relativeAccessor) ReadUint64LE() (uint64, error) {
	if err := r.readAdvance(8); err != nil {
		return 0, err
	}
	v, err := r.GetUint64LE(r.ReaderIndex())
	if err == nil {
		_ = r.SetReaderIndex(r.ReaderIndex() + 8)
	}
	return v, err
}
func (r relativeAccessor) ReadInt64BE() (int64, error) {
	v, err := r.ReadUint64BE()
	return int64(v), err
}
func (r relativeAccessor) ReadInt64LE() (int64, error) {
	v, err := r.ReadUint64LE()
	return int64(v), err
}
func (r relativeAccessor) WriteUint64BE(v uint64) error {
	if err := r.EnsureWritable(8); err != nil {
		return err
	}
	if err := r.SetUint64BE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 8)
}
func (r relativeAccessor) WriteUint64LE(v uint64) error {
	if err := r.EnsureWritable(8); err != nil {
		return err
	}
	if err := r.SetUint64LE(r.WriterIndex(), v); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + 8)
}
func (r relativeAccessor) WriteInt64BE(v int64) error { return r.WriteUint64BE(uint64(v)) }
func (r relativeAccessor) WriteInt64LE(v int64) error { return r.WriteUint64LE(uint64(v)) }

func (r relativeAccessor) ReadBytes(dst []byte) (int, error) {
	if err := r.readAdvance(len(dst)); err != nil {
		return 0, err
	}
	if err := r.GetBytes(r.ReaderIndex(), dst); err != nil {
		return 0, err
	}
	if err := r.SetReaderIndex(r.ReaderIndex() + len(dst)); err != nil {
		return 0, err
	}
	return len(dst), nil
}
func (r relativeAccessor) WriteBytes(src []byte) (int, error) {
	if err := r.EnsureWritable(len(src)); err != nil {
		return 0, err
	}
	if err := r.SetBytes(r.WriterIndex(), src); err != nil {
		return 0, err
	}
	if err := r.SetWriterIndex(r.WriterIndex() + len(src)); err != nil {
		return 0, err
	}
	return len(src), nil
}

func (r relativeAccessor) ReadFrom(rd io.Reader, length int) (int, error) {
	if err := r.EnsureWritable(length); err != nil {
		return 0, err
	}
	tmp := make([]byte, length)
	n, err := io.ReadFull(rd, tmp)
	if n > 0 {
		if serr := r.SetBytes(r.WriterIndex(), tmp[:n]); serr != nil {
			return 0, serr
		}
		if serr := r.SetWriterIndex(r.WriterIndex() + n); serr != nil {
			return 0, serr
		}
	}
	return n, err
}
func (r relativeAccessor) WriteTo(w io.Writer, length int) (int, error) {
	if err := r.readAdvance(length); err != nil {
		return 0, err
	}
	tmp := make([]byte, length)
	if err := r.GetBytes(r.ReaderIndex(), tmp); err != nil {
		return 0, err
	}
	n, err := w.Write(tmp)
	if n > 0 {
		if serr := r.SetReaderIndex(r.ReaderIndex() + n); serr != nil {
			return n, serr
		}
	}
	return n, err
}
func (r relativeAccessor) SetBytesAsync(ctx context.Context, rd io.Reader, length int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.ReadFrom(rd, length)
}
func (r relativeAccessor) WriteZero(length int) error {
	if err := r.EnsureWritable(length); err != nil {
		return err
	}
	if err := r.SetZero(r.WriterIndex(), length); err != nil {
		return err
	}
	return r.SetWriterIndex(r.WriterIndex() + length)
}
