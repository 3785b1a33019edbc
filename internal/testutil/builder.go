package testutil

import (
	"github.com/vk/bbscript/internal/cursor"
	"github.com/vk/bbscript/internal/profile"
)

// Field writes one piece of an instruction payload.
type Field func(w *cursor.Writer)

// I32 is a 4-byte signed field.
func I32(v int32) Field { return func(w *cursor.Writer) { w.PutI32(v) } }

// Tagged is a tag word followed by a value word.
func Tagged(tag, v int32) Field {
	return func(w *cursor.Writer) {
		w.PutI32(tag)
		w.PutI32(v)
	}
}

// S16 is a 16-byte zero-padded string field.
func S16(s string) Field { return func(w *cursor.Writer) { w.PutString(s, 16) } }

// S32 is a 32-byte zero-padded string field.
func S32(s string) Field { return func(w *cursor.Writer) { w.PutString(s, 32) } }

// Bytes is a verbatim field.
func Bytes(b ...byte) Field { return func(w *cursor.Writer) { w.PutBytes(b) } }

// Builder assembles a binary script by hand, independently of the codec, so
// tests can check the codec against an explicit byte layout.
type Builder struct {
	p      *profile.Profile
	body   *cursor.Writer
	tables [][]builderEntry
}

type builderEntry struct {
	name   []byte
	offset int
}

// NewBuilder starts an empty script for p.
func NewBuilder(p *profile.Profile) *Builder {
	return &Builder{
		p:      p,
		body:   cursor.NewWriter(p.ByteOrder()),
		tables: make([][]builderEntry, len(p.JumpTableIDs)),
	}
}

// Instr appends an instruction. In the unsized layout the size field is
// computed from the payload. Instructions whose id owns a jump table get a
// header entry named after their first 32 payload bytes.
func (b *Builder) Instr(id uint32, fields ...Field) *Builder {
	payload := cursor.NewWriter(b.p.ByteOrder())
	for _, f := range fields {
		f(payload)
	}
	return b.instr(id, payload.Bytes(), profile.UnsizedHeader+payload.Len())
}

// InstrWithSize appends an unsized-layout instruction with an explicit,
// possibly inconsistent, size field.
func (b *Builder) InstrWithSize(id uint32, size int, fields ...Field) *Builder {
	payload := cursor.NewWriter(b.p.ByteOrder())
	for _, f := range fields {
		f(payload)
	}
	return b.instr(id, payload.Bytes(), size)
}

func (b *Builder) instr(id uint32, payload []byte, size int) *Builder {
	offset := b.body.Len()
	b.body.PutU32(id)
	if b.p.Layout == profile.LayoutUnsized {
		b.body.PutU32(uint32(size))
	}
	b.body.PutBytes(payload)

	if ti, ok := b.p.JumpTable(id); ok && len(payload) >= 32 {
		b.tables[ti] = append(b.tables[ti], builderEntry{name: payload[:32], offset: offset})
	}
	return b
}

// Body returns the encoded instructions without a header.
func (b *Builder) Body() []byte {
	return append([]byte(nil), b.body.Bytes()...)
}

// Bytes returns the complete script: header followed by body.
func (b *Builder) Bytes() []byte {
	w := cursor.NewWriter(b.p.ByteOrder())
	for _, t := range b.tables {
		w.PutU32(uint32(len(t)))
	}
	for _, t := range b.tables {
		for _, e := range t {
			w.PutBytes(e.name)
			w.PutU32(uint32(e.offset))
		}
	}
	w.PutBytes(b.body.Bytes())
	return w.Bytes()
}
