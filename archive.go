package hfcompress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	headerSize = 3
	maxPadding = 7
)

// Wire format:
//
//	padding  = uint8, zero bits appended to the final payload byte (0-7)
//	treeSize = uint16 big-endian, bits occupied by the serialized tree
//	payload  = serialized tree bits, then one code per input byte,
//	           packed most significant bit first
//
// An empty input is stored as the bare header 00 00 00.
//
// Archive is the in-memory form of a compressed file.
type Archive struct {
	Padding  uint8
	TreeSize uint16
	Payload  []byte
}

// Bits returns the number of meaningful payload bits, tree included.
func (a *Archive) Bits() int64 {
	return int64(len(a.Payload))*8 - int64(a.Padding)
}

// CodeBits returns the number of payload bits holding symbol codes.
func (a *Archive) CodeBits() int64 {
	return a.Bits() - int64(a.TreeSize)
}

// SpaceUsed returns the serialized size in bytes.
func (a *Archive) SpaceUsed() int {
	return headerSize + len(a.Payload)
}

// Validate checks that the header agrees with the payload. It does not look
// inside the tree or the codes; Decoder.Decode does that.
func (a *Archive) Validate() error {
	if a.Padding > maxPadding {
		return fmt.Errorf("%w: padding %d exceeds %d bits", ErrInvalidHeader, a.Padding, maxPadding)
	}
	if a.TreeSize == 0 {
		if len(a.Payload) != 0 {
			return fmt.Errorf("%w: empty tree with %d payload bytes", ErrMalformedTree, len(a.Payload))
		}
		if a.Padding != 0 {
			return fmt.Errorf("%w: padding %d without payload", ErrInvalidHeader, a.Padding)
		}
		return nil
	}

	total := int64(len(a.Payload)) * 8
	if int64(a.TreeSize) > total {
		return fmt.Errorf("%w: tree needs %d bits, payload holds %d", ErrMalformedTree, a.TreeSize, total)
	}
	if int64(a.TreeSize)+int64(a.Padding) > total {
		return fmt.Errorf("%w: padding %d overlaps the tree", ErrTruncatedStream, a.Padding)
	}
	if a.Padding > 0 {
		mask := byte(1)<<a.Padding - 1
		if last := a.Payload[len(a.Payload)-1]; last&mask != 0 {
			return fmt.Errorf("%w: padding bits are not zero (last byte %08b)", ErrTruncatedStream, last)
		}
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// WriteTo serializes the Archive to an io.Writer.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("invalid archive: %w", err)
	}

	var header [headerSize]byte
	header[0] = a.Padding
	binary.BigEndian.PutUint16(header[1:], a.TreeSize)

	var total int64
	n, err := writeBytes(w, header[:])
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeBytes(w, a.Payload)
	total += n
	return total, err
}

// ReadFrom deserializes an Archive from an io.Reader, consuming it to EOF.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	var header [headerSize]byte
	n, err := io.ReadFull(r, header[:])
	total += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return total, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncatedStream, headerSize, n)
		}
		return total, fmt.Errorf("read header: %w", err)
	}

	var payload bytes.Buffer
	m, err := payload.ReadFrom(r)
	total += m
	if err != nil {
		return total, fmt.Errorf("read payload at offset %d: %w", headerSize, err)
	}

	tmp := Archive{
		Padding:  header[0],
		TreeSize: binary.BigEndian.Uint16(header[1:]),
		Payload:  payload.Bytes(),
	}
	if err := tmp.Validate(); err != nil {
		return total, fmt.Errorf("invalid archive: %w", err)
	}

	*a = tmp
	return total, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *Archive) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(a.SpaceUsed())
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Archive) UnmarshalBinary(data []byte) error {
	_, err := a.ReadFrom(bytes.NewReader(data))
	return err
}

func checkTreeSize(bits int) (uint16, error) {
	if bits > math.MaxUint16 {
		return 0, fmt.Errorf("serialized tree of %d bits does not fit the header", bits)
	}
	return uint16(bits), nil
}
