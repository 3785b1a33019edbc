package codec

import (
	"errors"
	"fmt"

	"github.com/vk/bbscript/internal/cursor"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/script"
)

// Encode lays out s as a script buffer. The body is encoded first so that
// every header offset comes from the bytes actually emitted; Offset fields
// on the instructions are ignored.
func Encode(s *script.Script, p *profile.Profile) ([]byte, error) {
	if p == nil {
		return nil, errors.New("encode: nil profile")
	}
	body := cursor.NewWriter(p.ByteOrder())
	h := &header{tables: make([][]entry, len(p.JumpTableIDs))}

	for i := range s.Instructions {
		in := &s.Instructions[i]
		offset := body.Len()
		if err := encodeInstruction(body, in, p); err != nil {
			return nil, &script.InstructionError{Index: i, Name: in.DisplayName(), Err: err}
		}

		ti, isState := p.JumpTable(in.ID)
		if !isState {
			continue
		}
		name, ok := in.StateName()
		if !ok {
			return nil, &script.InstructionError{Index: i, Name: in.DisplayName(), Err: &script.OffsetError{
				Table:  ti,
				Entry:  len(h.tables[ti]),
				Offset: offset,
				Reason: "state instruction has no 32-byte name as its first argument",
			}}
		}
		h.tables[ti] = append(h.tables[ti], entry{name: name, offset: offset})
	}

	out := cursor.NewWriter(p.ByteOrder())
	h.write(out)
	out.PutBytes(body.Bytes())
	return out.Bytes(), nil
}

func encodeInstruction(w *cursor.Writer, in *script.Instruction, p *profile.Profile) error {
	for i, a := range in.Args {
		if err := script.CheckWidth(a); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
	}

	def, known := p.Instruction(in.ID)
	size := p.HeaderSize() + in.ArgsSize()
	w.PutU32(in.ID)
	switch p.Layout {
	case profile.LayoutUnsized:
		w.PutU32(uint32(size))
	default:
		if !known {
			return &script.UnsizableError{ID: in.ID}
		}
		if size != def.Size {
			return &script.SizeError{Name: in.DisplayName(), Got: size, Want: def.Size}
		}
	}

	for i, a := range in.Args {
		if err := encodeArg(w, p, def, i, a); err != nil {
			return fmt.Errorf("argument %d (%s): %w", i, script.Describe(a), err)
		}
	}
	return nil
}

func encodeArg(w *cursor.Writer, p *profile.Profile, def *profile.InstructionDef, i int, a script.Arg) error {
	switch v := a.(type) {
	case script.String16:
		w.PutString(string(v), script.String16Width)
	case script.String32:
		w.PutString(string(v), script.String32Width)
	case script.MemNamed:
		id, ok := p.Variables.Value(string(v))
		if !ok {
			return &script.NameError{Kind: "variable", Name: string(v)}
		}
		w.PutI32(p.VariableTag)
		w.PutI32(id)
	case script.MemID:
		w.PutI32(p.VariableTag)
		w.PutI32(int32(v))
	case script.Val:
		w.PutI32(p.LiteralTag)
		w.PutI32(int32(v))
	case script.BadTag:
		w.PutI32(v.Tag)
		w.PutI32(v.Value)
	case script.NamedValue:
		slot, ok := def.Slot(i)
		if !ok || slot.Kind != profile.ArgEnum {
			return &script.NameError{Kind: "named value outside an enum slot", Name: string(v)}
		}
		e, _ := p.Enum(slot.Enum)
		n, ok := e.Value(string(v))
		if !ok {
			return &script.NameError{Kind: "member of enum " + slot.Enum, Name: string(v)}
		}
		w.PutI32(n)
	case script.Raw:
		w.PutBytes(v)
	case script.Number:
		w.PutI32(int32(v))
	default:
		return fmt.Errorf("unsupported argument type %T", a)
	}
	return nil
}
