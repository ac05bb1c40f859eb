// Package buffer provides the growable, dual-cursor byte storage a wire
// reads from and writes to.
//
// A Buffer keeps a write position (the length of B) and an independent read
// position. Writers append at the write position and may patch bytes that are
// already written through the absolute Put*At methods, which is how document
// and nested object lengths are filled in after their content is known.
//
// A Buffer is not safe for concurrent use.
package buffer

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/wire/endian"
	"github.com/arloliu/wire/errs"
)

const (
	// DefaultSize is the initial capacity of an elastic buffer.
	DefaultSize = 1024 * 4 // 4KiB
	// growStep is the fixed growth used while the buffer is small.
	growStep = 1024 * 16 // 16KiB
)

// Buffer is a growable byte buffer with separate read and write cursors.
type Buffer struct {
	// B holds the written bytes; len(B) is the write position.
	B []byte

	readPos int
}

// New creates an empty buffer with the given capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}

	return &Buffer{B: make([]byte, 0, capacity)}
}

// NewElastic creates an empty buffer that grows on demand.
func NewElastic() *Buffer {
	return New(DefaultSize)
}

// Wrap creates a buffer over data with the write position at its end and
// the read position at its start. The buffer takes ownership of data.
func Wrap(data []byte) *Buffer {
	return &Buffer{B: data}
}

// Bytes returns the written bytes. The slice aliases the buffer.
func (bb *Buffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of written bytes.
func (bb *Buffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the underlying storage.
func (bb *Buffer) Cap() int {
	return cap(bb.B)
}

// Reset clears both cursors but keeps the allocated memory.
func (bb *Buffer) Reset() {
	bb.B = bb.B[:0]
	bb.readPos = 0
}

// WritePosition returns the offset the next write lands at.
func (bb *Buffer) WritePosition() int {
	return len(bb.B)
}

// SetWritePosition truncates the written region to n bytes.
//
// It is used to roll back a partially written document. n must not exceed
// the current write position.
func (bb *Buffer) SetWritePosition(n int) error {
	if n < 0 || n > len(bb.B) {
		return errs.ErrOffsetOutOfRange
	}
	bb.B = bb.B[:n]
	if bb.readPos > n {
		bb.readPos = n
	}

	return nil
}

// ReadPosition returns the offset of the next unread byte.
func (bb *Buffer) ReadPosition() int {
	return bb.readPos
}

// SetReadPosition moves the read cursor to n.
func (bb *Buffer) SetReadPosition(n int) error {
	if n < 0 || n > len(bb.B) {
		return errs.ErrOffsetOutOfRange
	}
	bb.readPos = n

	return nil
}

// ReadRemaining returns the number of written bytes not yet read.
func (bb *Buffer) ReadRemaining() int {
	return len(bb.B) - bb.readPos
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// The growth strategy is as follows:
//   - For small buffers, grow by a fixed 16KiB step to minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity.
func (bb *Buffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := growStep
	if cap(bb.B) > 4*growStep {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ExtendOrGrow extends the written region by n zero bytes, growing as needed,
// and returns the offset of the first new byte.
func (bb *Buffer) ExtendOrGrow(n int) int {
	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
	clear(bb.B[start:])

	return start
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *Buffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Write appends the contents of data to the buffer. It never fails.
func (bb *Buffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteString appends s to the buffer. It never fails.
func (bb *Buffer) WriteString(s string) (int, error) {
	bb.Grow(len(s))
	bb.B = append(bb.B, s...)

	return len(s), nil
}

// WriteByte appends a single byte. It never fails.
func (bb *Buffer) WriteByte(c byte) error {
	bb.Grow(1)
	bb.B = append(bb.B, c)

	return nil
}

// AppendUint32 appends v in the byte order of engine.
func (bb *Buffer) AppendUint32(engine endian.EndianEngine, v uint32) {
	bb.Grow(4)
	bb.B = engine.AppendUint32(bb.B, v)
}

// AppendUint64 appends v in the byte order of engine.
func (bb *Buffer) AppendUint64(engine endian.EndianEngine, v uint64) {
	bb.Grow(8)
	bb.B = engine.AppendUint64(bb.B, v)
}

// AppendUvarint appends v as an unsigned LEB128 varint.
func (bb *Buffer) AppendUvarint(v uint64) {
	bb.Grow(binary.MaxVarintLen64)
	bb.B = binary.AppendUvarint(bb.B, v)
}

// PutUint32At overwrites the four bytes at offset with v.
func (bb *Buffer) PutUint32At(engine endian.EndianEngine, offset int, v uint32) error {
	if offset < 0 || offset+4 > len(bb.B) {
		return errs.ErrOffsetOutOfRange
	}
	engine.PutUint32(bb.B[offset:offset+4], v)

	return nil
}

// PutByteAt overwrites the byte at offset with c.
func (bb *Buffer) PutByteAt(offset int, c byte) error {
	if offset < 0 || offset >= len(bb.B) {
		return errs.ErrOffsetOutOfRange
	}
	bb.B[offset] = c

	return nil
}

// Slice returns the written bytes in [start, end). The slice aliases the buffer.
func (bb *Buffer) Slice(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(bb.B) {
		return nil, errs.ErrOffsetOutOfRange
	}

	return bb.B[start:end], nil
}

// ReadByte consumes one byte at the read position.
func (bb *Buffer) ReadByte() (byte, error) {
	if bb.readPos >= len(bb.B) {
		return 0, io.EOF
	}
	c := bb.B[bb.readPos]
	bb.readPos++

	return c, nil
}

// Read consumes up to len(p) unread bytes into p.
func (bb *Buffer) Read(p []byte) (int, error) {
	if bb.readPos >= len(bb.B) {
		if len(p) == 0 {
			return 0, nil
		}

		return 0, io.EOF
	}
	n := copy(p, bb.B[bb.readPos:])
	bb.readPos += n

	return n, nil
}

// Next consumes and returns the next n unread bytes. The slice aliases the buffer.
func (bb *Buffer) Next(n int) ([]byte, error) {
	if n < 0 || bb.readPos+n > len(bb.B) {
		return nil, errs.ErrBufferUnderflow
	}
	p := bb.B[bb.readPos : bb.readPos+n]
	bb.readPos += n

	return p, nil
}

// WriteTo writes the unread bytes to w and consumes them.
func (bb *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B[bb.readPos:])
	bb.readPos += n

	return int64(n), err
}
