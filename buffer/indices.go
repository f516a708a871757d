package buffer

// indices tracks the five index values shared by every buffer variant:
// readerIndex, writerIndex and their saved marks, plus the maxCapacity
// ceiling. Capacity itself is owned by the concrete variant (a heap buffer's
// capacity is len(data); a composite buffer's is the sum of its children's
// readable bytes) so every method that needs to bounds-check against it
// takes the current capacity as a parameter.
type indices struct {
	readerIndex int
	writerIndex int
	readerMark  int
	writerMark  int
	maxCapacity int
}

func newIndices(maxCapacity int) indices {
	return indices{maxCapacity: maxCapacity}
}

func (ix *indices) ReaderIndex() int { return ix.readerIndex }
func (ix *indices) WriterIndex() int { return ix.writerIndex }
func (ix *indices) MaxCapacity() int { return ix.maxCapacity }

func (ix *indices) ReadableBytes() int { return ix.writerIndex - ix.readerIndex }
func (ix *indices) WritableBytes(capacity int) int {
	return capacity - ix.writerIndex
}
func (ix *indices) IsReadable() bool          { return ix.writerIndex > ix.readerIndex }
func (ix *indices) IsWritable(capacity int) bool { return capacity > ix.writerIndex }

func (ix *indices) SetReaderIndex(index int) error {
	if index < 0 || index > ix.writerIndex {
		return ErrIndexOutOfRange
	}
	ix.readerIndex = index
	return nil
}

func (ix *indices) SetWriterIndex(index, capacity int) error {
	if index < ix.readerIndex || index > capacity {
		return ErrIndexOutOfRange
	}
	ix.writerIndex = index
	return nil
}

func (ix *indices) SetIndex(readerIndex, writerIndex, capacity int) error {
	if readerIndex < 0 || readerIndex > writerIndex || writerIndex > capacity {
		return ErrIndexOutOfRange
	}
	ix.readerIndex = readerIndex
	ix.writerIndex = writerIndex
	return nil
}

func (ix *indices) MarkReaderIndex() { ix.readerMark = ix.readerIndex }
func (ix *indices) ResetReaderIndex() error {
	return ix.SetReaderIndex(ix.readerMark)
}
func (ix *indices) MarkWriterIndex() { ix.writerMark = ix.writerIndex }
func (ix *indices) ResetWriterIndex(capacity int) error {
	return ix.SetWriterIndex(ix.writerMark, capacity)
}

// discardReadBytes computes the new reader/writer/mark positions after a
// compaction of n = readerIndex bytes. It does not itself move any byte;
// the concrete variant is responsible for the physical copy.
func (ix *indices) discardReadBytes() (discarded int) {
	discarded = ix.readerIndex
	if discarded == 0 {
		return 0
	}
	ix.writerIndex -= discarded
	ix.readerMark -= discarded
	if ix.readerMark < 0 {
		ix.readerMark = 0
	}
	ix.writerMark -= discarded
	if ix.writerMark < 0 {
		ix.writerMark = 0
	}
	ix.readerIndex = 0
	return discarded
}

// checkGetIndex validates an absolute read of length bytes starting at index
// against capacity, without touching reader/writer cursors.
func checkGetIndex(index, length, capacity int) error {
	if index < 0 || length < 0 || index+length > capacity {
		return ErrIndexOutOfRange
	}
	return nil
}
