package buffer

import (
	"context"
	"io"
)

// heapBuf is the heap-backed Buf variant: it owns a []byte and grows it (up
// to maxCapacity) as needed. It is the workhorse variant produced by the
// default Allocator and is also what Copy() and Consolidate() produce.
type heapBuf struct {
	refCounted
	indices
	data []byte
}

// NewHeap allocates a heap-backed buffer with the given initial and max
// capacities. Most callers should go through an Allocator instead.
func NewHeap(initialCapacity, maxCapacity int) Buf {
	h := &heapBuf{
		indices: newIndices(maxCapacity),
		data:    make([]byte, initialCapacity),
	}
	h.refCounted = newRefCounted(func() { h.data = nil })
	return h
}

// wrapHeap adapts an existing slice as a heap buffer without copying. The
// slice's full length becomes the initial capacity and writerIndex.
func wrapHeap(data []byte, maxCapacity int) *heapBuf {
	h := &heapBuf{
		indices: newIndices(maxCapacity),
		data:    data,
	}
	h.writerIndex = len(data)
	h.refCounted = newRefCounted(func() { h.data = nil })
	return h
}

func (h *heapBuf) Capacity() int { return len(h.data) }

func (h *heapBuf) WritableBytes() int { return h.indices.WritableBytes(h.Capacity()) }
func (h *heapBuf) IsWritable() bool   { return h.indices.IsWritable(h.Capacity()) }

func (h *heapBuf) SetWriterIndex(index int) error {
	return h.indices.SetWriterIndex(index, h.Capacity())
}
func (h *heapBuf) SetIndex(readerIndex, writerIndex int) error {
	return h.indices.SetIndex(readerIndex, writerIndex, h.Capacity())
}
func (h *heapBuf) ResetWriterIndex() error { return h.indices.ResetWriterIndex(h.Capacity()) }

func (h *heapBuf) DiscardReadBytes() error {
	if err := h.checkAccessible(); err != nil {
		return err
	}
	n := h.discardReadBytes()
	if n > 0 {
		copy(h.data, h.data[n:n+h.writerIndex])
	}
	return nil
}

func (h *heapBuf) EnsureWritable(n int) error {
	if err := h.checkAccessible(); err != nil {
		return err
	}
	if n < 0 {
		return ErrIndexOutOfRange
	}
	if h.WritableBytes() >= n {
		return nil
	}
	target := h.writerIndex + n
	if target > h.maxCapacity {
		return ErrBufferOverflow
	}
	newCap := h.Capacity()
	if newCap == 0 {
		newCap = 64
	}
	for newCap < target {
		newCap *= 2
	}
	if newCap > h.maxCapacity {
		newCap = h.maxCapacity
	}
	grown := make([]byte, newCap)
	copy(grown, h.data)
	h.data = grown
	return nil
}

// --- absolute primitive access ---

func (h *heapBuf) getN(index, length int) ([]byte, error) {
	if err := h.checkAccessible(); err != nil {
		return nil, err
	}
	if err := checkGetIndex(index, length, h.Capacity()); err != nil {
		return nil, err
	}
	return h.data[index : index+length], nil
}

func (h *heapBuf) setN(index, length int) ([]byte, error) {
	// Setting (unlike getting) is allowed to target any index within
	// capacity regardless of writerIndex; it does not move the cursor.
	return h.getN(index, length)
}

func (h *heapBuf) GetUint8(index int) (uint8, error) {
	b, err := h.getN(index, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
func (h *heapBuf) GetInt8(index int) (int8, error) {
	v, err := h.GetUint8(index)
	return int8(v), err
}
func (h *heapBuf) SetUint8(index int, v uint8) error {
	b, err := h.setN(index, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}
func (h *heapBuf) SetInt8(index int, v int8) error { return h.SetUint8(index, uint8(v)) }

func (h *heapBuf) GetUint16BE(index int) (uint16, error) {
	b, err := h.getN(index, 2)
	if err != nil {
		return 0, err
	}
	return decodeUint16BE(b), nil
}
func (h *heapBuf) GetUint16LE(index int) (uint16, error) {
	b, err := h.getN(index, 2)
	if err != nil {
		return 0, err
	}
	return decodeUint16LE(b), nil
}
func (h *heapBuf) GetInt16BE(index int) (int16, error) {
	v, err := h.GetUint16BE(index)
	return int16(v), err
}
func (h *heapBuf) GetInt16LE(index int) (int16, error) {
	v, err := h.GetUint16LE(index)
	return int16(v), err
}
func (h *heapBuf) SetUint16BE(index int, v uint16) error {
	b, err := h.setN(index, 2)
	if err != nil {
		return err
	}
	encodeUint16BE(b, v)
	return nil
}
func (h *heapBuf) SetUint16LE(index int, v uint16) error {
	b, err := h.setN(index, 2)
	if err != nil {
		return err
	}
	encodeUint16LE(b, v)
	return nil
}
func (h *heapBuf) SetInt16BE(index int, v int16) error { return h.SetUint16BE(index, uint16(v)) }
func (h *heapBuf) SetInt16LE(index int, v int16) error { return h.SetUint16LE(index, uint16(v)) }

func (h *heapBuf) GetMediumBE(index int) (uint32, error) {
	b, err := h.getN(index, 3)
	if err != nil {
		return 0, err
	}
	return decodeMediumBE(b), nil
}
func (h *heapBuf) GetMediumLE(index int) (uint32, error) {
	b, err := h.getN(index, 3)
	if err != nil {
		return 0, err
	}
	return decodeMediumLE(b), nil
}
func (h *heapBuf) SetMediumBE(index int, v uint32) error {
	b, err := h.setN(index, 3)
	if err != nil {
		return err
	}
	encodeMediumBE(b, v)
	return nil
}
func (h *heapBuf) SetMediumLE(index int, v uint32) error {
	b, err := h.setN(index, 3)
	if err != nil {
		return err
	}
	encodeMediumLE(b, v)
	return nil
}

func (h *heapBuf) GetUint32BE(index int) (uint32, error) {
	b, err := h.getN(index, 4)
	if err != nil {
		return 0, err
	}
	return decodeUint32BE(b), nil
}
func (h *heapBuf) GetUint32LE(index int) (uint32, error) {
	b, err := h.getN(index, 4)
	if err != nil {
		return 0, err
	}
	return decodeUint32LE(b), nil
}
func (h *heapBuf) GetInt32BE(index int) (int32, error) {
	v, err := h.GetUint32BE(index)
	return int32(v), err
}
func (h *heapBuf) GetInt32LE(index int) (int32, error) {
	v, err := h.GetUint32LE(index)
	return int32(v), err
}
func (h *heapBuf) SetUint32BE(index int, v uint32) error {
	b, err := h.setN(index, 4)
	if err != nil {
		return err
	}
	encodeUint32BE(b, v)
	return nil
}
func (h *heapBuf) SetUint32LE(index int, v uint32) error {
	b, err := h.setN(index, 4)
	if err != nil {
		return err
	}
	encodeUint32LE(b, v)
	return nil
}
func (h *heapBuf) SetInt32BE(index int, v int32) error { return h.SetUint32BE(index, uint32(v)) }
func (h *heapBuf) SetInt32LE(index int, v int32) error { return h.SetUint32LE(index, uint32(v)) }

func (h *heapBuf) GetUint64BE(index int) (uint64, error) {
	b, err := h.getN(index, 8)
	if err != nil {
		return 0, err
	}
	return decodeUint64BE(b), nil
}
func (h *heapBuf) GetUint64LE(index int) (uint64, error) {
	b, err := h.getN(index, 8)
	if err != nil {
		return 0, err
	}
	return decodeUint64LE(b), nil
}
func (h *heapBuf) GetInt64BE(index int) (int64, error) {
	v, err := h.GetUint64BE(index)
	return int64(v), err
}
func (h *heapBuf) GetInt64LE(index int) (int64, error) {
	v, err := h.GetUint64LE(index)
	return int64(v), err
}
func (h *heapBuf) SetUint64BE(index int, v uint64) error {
	b, err := h.setN(index, 8)
	if err != nil {
		return err
	}
	encodeUint64BE(b, v)
	return nil
}
func (h *heapBuf) SetUint64LE(index int, v uint64) error {
	b, err := h.setN(index, 8)
	if err != nil {
		return err
	}
	encodeUint64LE(b, v)
	return nil
}
func (h *heapBuf) SetInt64BE(index int, v int64) error { return h.SetUint64BE(index, uint64(v)) }
func (h *heapBuf) SetInt64LE(index int, v int64) error { return h.SetUint64LE(index, uint64(v)) }

func (h *heapBuf) GetBytes(index int, dst []byte) error {
	b, err := h.getN(index, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}
func (h *heapBuf) SetBytes(index int, src []byte) error {
	b, err := h.setN(index, len(src))
	if err != nil {
		return err
	}
	copy(b, src)
	return nil
}

func (h *heapBuf) GetBuf(index int, dst Buf, dstIndex, length int) error {
	b, err := h.getN(index, length)
	if err != nil {
		return err
	}
	return dst.SetBytes(dstIndex, b)
}
func (h *heapBuf) SetBuf(index int, src Buf, srcIndex, length int) error {
	b, err := h.setN(index, length)
	if err != nil {
		return err
	}
	return src.GetBytes(srcIndex, b)
}

// --- relative primitive access ---

func (h *heapBuf) checkReadable(n int) error {
	if err := h.checkAccessible(); err != nil {
		return err
	}
	if h.ReadableBytes() < n {
		return ErrIndexOutOfRange
	}
	return nil
}

func (h *heapBuf) ReadUint8() (uint8, error) {
	if err := h.checkReadable(1); err != nil {
		return 0, err
	}
	v, _ := h.GetUint8(h.readerIndex)
	h.readerIndex++
	return v, nil
}
func (h *heapBuf) ReadInt8() (int8, error) {
	v, err := h.ReadUint8()
	return int8(v), err
}
func (h *heapBuf) WriteUint8(v uint8) error {
	if err := h.EnsureWritable(1); err != nil {
		return err
	}
	_ = h.SetUint8(h.writerIndex, v)
	h.writerIndex++
	return nil
}
func (h *heapBuf) WriteInt8(v int8) error { return h.WriteUint8(uint8(v)) }

func (h *heapBuf) ReadUint16BE() (uint16, error) {
	if err := h.checkReadable(2); err != nil {
		return 0, err
	}
	v, _ := h.GetUint16BE(h.readerIndex)
	h.readerIndex += 2
	return v, nil
}
func (h *heapBuf) ReadUint16LE() (uint16, error) {
	if err := h.checkReadable(2); err != nil {
		return 0, err
	}
	v, _ := h.GetUint16LE(h.readerIndex)
	h.readerIndex += 2
	return v, nil
}
func (h *heapBuf) ReadInt16BE() (int16, error) {
	v, err := h.ReadUint16BE()
	return int16(v), err
}
func (h *heapBuf) ReadInt16LE() (int16, error) {
	v, err := h.ReadUint16LE()
	return int16(v), err
}
func (h *heapBuf) WriteUint16BE(v uint16) error {
	if err := h.EnsureWritable(2); err != nil {
		return err
	}
	_ = h.SetUint16BE(h.writerIndex, v)
	h.writerIndex += 2
	return nil
}
func (h *heapBuf) WriteUint16LE(v uint16) error {
	if err := h.EnsureWritable(2); err != nil {
		return err
	}
	_ = h.SetUint16LE(h.writerIndex, v)
	h.writerIndex += 2
	return nil
}
func (h *heapBuf) WriteInt16BE(v int16) error { return h.WriteUint16BE(uint16(v)) }
func (h *heapBuf) WriteInt16LE(v int16) error { return h.WriteUint16LE(uint16(v)) }

func (h *heapBuf) ReadMediumBE() (uint32, error) {
	if err := h.checkReadable(3); err != nil {
		return 0, err
	}
	v, _ := h.GetMediumBE(h.readerIndex)
	h.readerIndex += 3
	return v, nil
}
func (h *heapBuf) ReadMediumLE() (uint32, error) {
	if err := h.checkReadable(3); err != nil {
		return 0, err
	}
	v, _ := h.GetMediumLE(h.readerIndex)
	h.readerIndex += 3
	return v, nil
}
func (h *heapBuf) WriteMediumBE(v uint32) error {
	if err := h.EnsureWritable(3); err != nil {
		return err
	}
	_ = h.SetMediumBE(h.writerIndex, v)
	h.writerIndex += 3
	return nil
}
func (h *heapBuf) WriteMediumLE(v uint32) error {
	if err := h.EnsureWritable(3); err != nil {
		return err
	}
	_ = h.SetMediumLE(h.writerIndex, v)
	h.writerIndex += 3
	return nil
}

func (h *heapBuf) ReadUint32BE() (uint32, error) {
	if err := h.checkReadable(4); err != nil {
		return 0, err
	}
	v, _ := h.GetUint32BE(h.readerIndex)
	h.readerIndex += 4
	return v, nil
}
func (h *heapBuf) ReadUint32LE() (uint32, error) {
	if err := h.checkReadable(4); err != nil {
		return 0, err
	}
	v, _ := h.GetUint32LE(h.readerIndex)
	h.readerIndex += 4
	return v, nil
}
func (h *heapBuf) ReadInt32BE() (int32, error) {
	v, err := h.ReadUint32BE()
	return int32(v), err
}
func (h *heapBuf) ReadInt32LE() (int32, error) {
	v, err := h.ReadUint32LE()
	return int32(v), err
}
func (h *heapBuf) WriteUint32BE(v uint32) error {
	if err := h.EnsureWritable(4); err != nil {
		return err
	}
	_ = h.SetUint32BE(h.writerIndex, v)
	h.writerIndex += 4
	return nil
}
func (h *heapBuf) WriteUint32LE(v uint32) error {
	if err := h.EnsureWritable(4); err != nil {
		return err
	}
	_ = h.SetUint32LE(h.writerIndex, v)
	h.writerIndex += 4
	return nil
}
func (h *heapBuf) WriteInt32BE(v int32) error { return h.WriteUint32BE(uint32(v)) }
func (h *heapBuf) WriteInt32LE(v int32) error { return h.WriteUint32LE(uint32(v)) }

func (h *heapBuf) ReadUint64BE() (uint64, error) {
	if err := h.checkReadable(8); err != nil {
		return 0, err
	}
	v, _ := h.GetUint64BE(h.readerIndex)
	h.readerIndex += 8
	return v, nil
}
func (h *heapBuf) ReadUint64LE() (uint64, error) {
	if err := h.checkReadable(8); err != nil {
		return 0, err
	}
	v, _ := h.GetUint64LE(h.readerIndex)
	h.readerIndex += 8
	return v, nil
}
func (h *heapBuf) ReadInt64BE() (int64, error) {
	v, err := h.ReadUint64BE()
	return int64(v), err
}
func (h *heapBuf) ReadInt64LE() (int64, error) {
	v, err := h.ReadUint64LE()
	return int64(v), err
}
func (h *heapBuf) WriteUint64BE(v uint64) error {
	if err := h.EnsureWritable(8); err != nil {
		return err
	}
	_ = h.SetUint64BE(h.writerIndex, v)
	h.writerIndex += 8
	return nil
}
func (h *heapBuf) WriteUint64LE(v uint64) error {
	if err := h.EnsureWritable(8); err != nil {
		return err
	}
	_ = h.SetUint64LE(h.writerIndex, v)
	h.writerIndex += 8
	return nil
}
func (h *heapBuf) WriteInt64BE(v int64) error { return h.WriteUint64BE(uint64(v)) }
func (h *heapBuf) WriteInt64LE(v int64) error { return h.WriteUint64LE(uint64(v)) }

func (h *heapBuf) ReadBytes(dst []byte) (int, error) {
	if err := h.checkReadable(len(dst)); err != nil {
		return 0, err
	}
	copy(dst, h.data[h.readerIndex:h.readerIndex+len(dst)])
	h.readerIndex += len(dst)
	return len(dst), nil
}
func (h *heapBuf) WriteBytes(src []byte) (int, error) {
	if err := h.EnsureWritable(len(src)); err != nil {
		return 0, err
	}
	n := copy(h.data[h.writerIndex:], src)
	h.writerIndex += n
	return n, nil
}

func (h *heapBuf) ReadFrom(r io.Reader, length int) (int, error) {
	if err := h.EnsureWritable(length); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(r, h.data[h.writerIndex:h.writerIndex+length])
	h.writerIndex += n
	return n, err
}
func (h *heapBuf) WriteTo(w io.Writer, length int) (int, error) {
	if err := h.checkReadable(length); err != nil {
		return 0, err
	}
	n, err := w.Write(h.data[h.readerIndex : h.readerIndex+length])
	h.readerIndex += n
	return n, err
}
func (h *heapBuf) SetBytesAsync(ctx context.Context, r io.Reader, length int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return h.ReadFrom(r, length)
}

func (h *heapBuf) SetZero(index, length int) error {
	b, err := h.setN(index, length)
	if err != nil {
		return err
	}
	for i := range b {
		b[i] = 0
	}
	return nil
}
func (h *heapBuf) WriteZero(length int) error {
	if err := h.EnsureWritable(length); err != nil {
		return err
	}
	b := h.data[h.writerIndex : h.writerIndex+length]
	for i := range b {
		b[i] = 0
	}
	h.writerIndex += length
	return nil
}

func (h *heapBuf) Copy(index, length int) (Buf, error) {
	b, err := h.getN(index, length)
	if err != nil {
		return nil, err
	}
	cp := NewHeap(length, h.maxCapacity)
	_, _ = cp.WriteBytes(b)
	return cp, nil
}

func (h *heapBuf) Slice(index, length int) (Buf, error) {
	if err := checkGetIndex(index, length, h.Capacity()); err != nil {
		return nil, err
	}
	return newDerived(h, h.data[index:index+length], 0, length, length)
}
func (h *heapBuf) RetainedSlice(index, length int) (Buf, error) {
	d, err := h.Slice(index, length)
	if err != nil {
		return nil, err
	}
	if err := d.Retain(); err != nil {
		return nil, err
	}
	return d, nil
}
func (h *heapBuf) Duplicate() (Buf, error) {
	d, err := newDerived(h, h.data, h.readerIndex, h.writerIndex, h.maxCapacity)
	return d, err
}
func (h *heapBuf) RetainedDuplicate() (Buf, error) {
	d, err := h.Duplicate()
	if err != nil {
		return nil, err
	}
	if err := d.Retain(); err != nil {
		return nil, err
	}
	return d, nil
}

func (h *heapBuf) HasMemoryAddress() bool { return false }
