package cursor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnexpectedEnd is returned when fewer bytes remain than a read requires.
var ErrUnexpectedEnd = errors.New("unexpected end of buffer")

// EndError records where a short read happened.
type EndError struct {
	Offset int // position of the failed read
	Want   int // bytes requested
	Have   int // bytes remaining
}

func (e *EndError) Error() string {
	return fmt.Sprintf("%s: need %d bytes at offset %#x, have %d", ErrUnexpectedEnd, e.Want, e.Offset, e.Have)
}

func (e *EndError) Unwrap() error {
	return ErrUnexpectedEnd
}

// ByteOrder is a byte order usable for both reading and appending.
// binary.LittleEndian and binary.BigEndian satisfy it.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Reader is a sequential reader over a fixed buffer.
type Reader struct {
	buf   []byte
	pos   int
	order ByteOrder
}

// NewReader returns a Reader positioned at the start of buf. A nil order
// defaults to little-endian.
func NewReader(buf []byte, order ByteOrder) *Reader {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Reader{buf: buf, order: order}
}

// Pos returns the current read position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek moves the read position to an absolute offset. Seeking to Len() is
// allowed and leaves nothing to read.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.buf) {
		return &EndError{Offset: pos, Want: 0, Have: len(r.buf)}
	}
	r.pos = pos
	return nil
}

// take returns the next n bytes and advances past them.
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, &EndError{Offset: r.pos, Want: n, Have: r.Remaining()}
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a 2-byte unsigned integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// U32 reads a 4-byte unsigned integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// I32 reads a 4-byte signed integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// Bytes reads n raw bytes. The returned slice is a copy.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// String reads a fixed-width field padded with 0x00 and returns the text up
// to the first pad byte.
func (r *Reader) String(width int) (string, error) {
	b, err := r.take(width)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}
