// Package bitstream packs logical bits into bytes and expands them back.
// Bits are always ordered most significant first within a byte.
package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"

	"github.com/seiflotfy/hfcompress/tree"
)

// Writer packs bits into an io.Writer.
type Writer struct {
	w *bitio.CountWriter
}

// NewWriter returns a Writer emitting whole bytes to out. Close must be
// called to flush the final partial byte.
func NewWriter(out io.Writer) *Writer {
	return &Writer{w: bitio.NewCountWriter(out)}
}

// WriteBit appends one bit.
func (w *Writer) WriteBit(bit bool) error {
	return w.w.WriteBool(bit)
}

// WriteBits appends the n lowest bits of v, highest of them first.
func (w *Writer) WriteBits(v uint64, n uint8) error {
	return w.w.WriteBits(v, n)
}

// WriteCode appends every bit of c in path order.
func (w *Writer) WriteCode(c tree.Code) error {
	for k := 0; k < c.Chunks(); k++ {
		v, n := c.Chunk(k)
		if err := w.w.WriteBits(v, n); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of bits written so far. After Close it includes
// the padding.
func (w *Writer) Count() int64 {
	return w.w.BitsCount
}

// Close completes the final byte with zero bits and returns how many were
// added, which is always in [0, 7].
func (w *Writer) Close() (padding uint8, err error) {
	return w.w.Align()
}

// Reader expands a byte slice into bits. A limit restricts how far reads may
// go; reading past it fails with io.ErrUnexpectedEOF.
type Reader struct {
	r     *bitio.CountReader
	size  int64
	limit int64
}

// NewReader returns a Reader over every bit of p.
func NewReader(p []byte) *Reader {
	size := int64(len(p)) * 8
	return &Reader{
		r:     bitio.NewCountReader(bytes.NewReader(p)),
		size:  size,
		limit: size,
	}
}

// Limit sets the absolute bit offset reads may not cross. It is clamped to
// the size of the underlying data.
func (r *Reader) Limit(bits int64) {
	if bits > r.size {
		bits = r.size
	}
	r.limit = bits
}

// Offset returns the number of bits consumed.
func (r *Reader) Offset() int64 {
	return r.r.BitsCount
}

// Remaining returns the number of bits left before the limit.
func (r *Reader) Remaining() int64 {
	return r.limit - r.r.BitsCount
}

// ReadBit consumes one bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.Remaining() < 1 {
		return false, io.ErrUnexpectedEOF
	}
	return r.r.ReadBool()
}

// ReadBits consumes n bits, n <= 64, and returns them right aligned.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	if r.Remaining() < int64(n) {
		return 0, io.ErrUnexpectedEOF
	}
	return r.r.ReadBits(n)
}
