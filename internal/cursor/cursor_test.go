package cursor

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Primitives(t *testing.T) {
	buf := []byte{
		0x7F,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0xFB, 0xFF, 0xFF, 0xFF,
		'a', 'b', 0, 0,
		0xDE, 0xAD,
	}
	r := NewReader(buf, nil)

	u8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	i32, err := r.I32()
	require.NoError(t, err)
	assert.Equal(t, int32(-5), i32)

	s, err := r.String(4)
	require.NoError(t, err)
	assert.Equal(t, "ab", s)

	raw, err := r.Bytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, raw)
	assert.Equal(t, 0, r.Remaining())
}

func TestReader_BigEndian(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34, 0x56, 0x78}, binary.BigEndian)
	v, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)
}

func TestReader_UnexpectedEnd(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, nil)
	_, err := r.U32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedEnd))

	var endErr *EndError
	require.True(t, errors.As(err, &endErr))
	assert.Equal(t, 0, endErr.Offset)
	assert.Equal(t, 4, endErr.Want)
	assert.Equal(t, 3, endErr.Have)

	// A failed read must not move the cursor.
	assert.Equal(t, 0, r.Pos())
	_, err = r.Bytes(3)
	require.NoError(t, err)
	_, err = r.U8()
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
}

func TestReader_Seek(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4}, nil)
	require.NoError(t, r.Seek(2))
	b, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), b)

	require.NoError(t, r.Seek(4))
	assert.Equal(t, 0, r.Remaining())
	assert.ErrorIs(t, r.Seek(5), ErrUnexpectedEnd)
	assert.ErrorIs(t, r.Seek(-1), ErrUnexpectedEnd)
}

func TestWriter_Symmetric(t *testing.T) {
	w := NewWriter(nil)
	w.PutU8(0x7F)
	w.PutU16(0x1234)
	w.PutU32(0x12345678)
	w.PutI32(-5)
	w.PutString("ab", 4)
	w.PutBytes([]byte{0xDE, 0xAD})

	assert.Equal(t, []byte{
		0x7F,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0xFB, 0xFF, 0xFF, 0xFF,
		'a', 'b', 0, 0,
		0xDE, 0xAD,
	}, w.Bytes())
	assert.Equal(t, 17, w.Len())
}

func TestWriter_PutStringTruncates(t *testing.T) {
	w := NewWriter(binary.BigEndian)
	w.PutString("abcdef", 4)
	assert.Equal(t, []byte("abcd"), w.Bytes())
}
