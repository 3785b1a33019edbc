package cursor

import (
	"encoding/binary"
)

// Writer appends fixed-width values to a growing buffer.
type Writer struct {
	buf   []byte
	order ByteOrder
}

// NewWriter returns an empty Writer. A nil order defaults to little-endian.
func NewWriter(order ByteOrder) *Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{order: order}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// PutU8 appends one byte.
func (w *Writer) PutU8(v uint8) { w.buf = append(w.buf, v) }

// PutU16 appends a 2-byte unsigned integer.
func (w *Writer) PutU16(v uint16) {
	w.buf = w.order.AppendUint16(w.buf, v)
}

// PutU32 appends a 4-byte unsigned integer.
func (w *Writer) PutU32(v uint32) {
	w.buf = w.order.AppendUint32(w.buf, v)
}

// PutI32 appends a 4-byte signed integer.
func (w *Writer) PutI32(v int32) { w.PutU32(uint32(v)) }

// PutBytes appends b verbatim.
func (w *Writer) PutBytes(b []byte) { w.buf = append(w.buf, b...) }

// PutString appends s as a fixed-width field, padded with 0x00. Input longer
// than width is truncated; callers that must reject overflow check first.
func (w *Writer) PutString(s string, width int) {
	if len(s) > width {
		s = s[:width]
	}
	w.buf = append(w.buf, s...)
	for i := len(s); i < width; i++ {
		w.buf = append(w.buf, 0)
	}
}
