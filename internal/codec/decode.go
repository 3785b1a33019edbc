package codec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/cursor"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/script"
)

// Decode parses a complete script buffer. Any failure aborts the whole
// script; no partial result is returned.
func Decode(buf []byte, p *profile.Profile) (*script.Script, error) {
	d := &decoder{p: p, logger: slog.New(slog.DiscardHandler)}
	return d.decode(buf)
}

// DecodeContext is Decode with progress and lossless-fallback events logged
// to the context's logger.
func DecodeContext(ctx context.Context, buf []byte, p *profile.Profile) (*script.Script, error) {
	d := &decoder{p: p, logger: ctxlog.FromContext(ctx)}
	return d.decode(buf)
}

type decoder struct {
	p      *profile.Profile
	logger *slog.Logger
}

func (d *decoder) decode(buf []byte) (*script.Script, error) {
	if d.p == nil {
		return nil, errors.New("decode: nil profile")
	}
	r := cursor.NewReader(buf, d.p.ByteOrder())

	h, err := readHeader(r, d.p)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Read function table.", "tables", len(h.tables), "header_size", h.size)

	base := h.size
	var body []script.Instruction
	for r.Remaining() > 0 {
		start := r.Pos()
		in, err := d.instruction(r)
		if err != nil {
			return nil, &script.DecodeError{Offset: start, Err: err}
		}
		in.Offset = start - base
		d.logger.Debug("Decoded instruction.", "name", in.DisplayName(), "offset", in.Offset, "args", len(in.Args))
		body = append(body, in)
	}

	if err := h.check(d.p, body, len(buf)-base); err != nil {
		return nil, err
	}
	d.logger.Debug("Script decoded.", "instructions", len(body), "body_size", len(buf)-base)
	return &script.Script{Instructions: body}, nil
}

// instruction decodes one instruction starting at the reader's position.
func (d *decoder) instruction(r *cursor.Reader) (script.Instruction, error) {
	id, err := r.U32()
	if err != nil {
		return script.Instruction{}, err
	}
	in := script.Instruction{ID: id}
	def, known := d.p.Instruction(id)
	if known {
		in.Name = def.Name
	}

	hdr := d.p.HeaderSize()
	var slots []profile.ArgType
	switch d.p.Layout {
	case profile.LayoutUnsized:
		size, err := r.U32()
		if err != nil {
			return in, err
		}
		if int(size) < hdr {
			return in, fmt.Errorf("instruction %d declares size %d, smaller than its %d-byte header: %w",
				id, size, hdr, script.ErrOffsetInconsistency)
		}
		n := int(size) - hdr
		if r.Remaining() < n {
			return in, &cursor.EndError{Offset: r.Pos(), Want: n, Have: r.Remaining()}
		}
		if known {
			var fits bool
			if slots, fits = def.SlotsFor(n); !fits {
				d.logger.Warn("Declared arguments exceed instruction size, keeping payload raw.",
					"instruction", in.DisplayName(), "size", size, "declared", def.KnownArgsSize())
				slots = rawSlot(n)
			}
		} else {
			d.logger.Debug("Instruction not in profile, keeping payload raw.", "id", id, "size", size)
			slots = rawSlot(n)
		}
	default:
		if !known {
			return in, &script.UnsizableError{ID: id}
		}
		var fits bool
		if slots, fits = def.SlotsFor(def.Size - hdr); !fits {
			return in, fmt.Errorf("profile size %d of %s cannot hold its arguments", def.Size, in.DisplayName())
		}
	}

	in.Args = make([]script.Arg, 0, len(slots))
	for _, slot := range slots {
		a, err := d.arg(r, slot)
		if err != nil {
			return in, err
		}
		in.Args = append(in.Args, a)
	}
	return in, nil
}

func rawSlot(n int) []profile.ArgType {
	if n == 0 {
		return nil
	}
	return []profile.ArgType{{Kind: profile.ArgUnknown, Size: n}}
}

// arg decodes one argument slot. Only the bytes are interpreted; names come
// from the profile purely for display.
func (d *decoder) arg(r *cursor.Reader, slot profile.ArgType) (script.Arg, error) {
	switch slot.Kind {
	case profile.ArgString16, profile.ArgString32:
		field, err := r.Bytes(slot.Width())
		if err != nil {
			return nil, err
		}
		s, ok := script.CanonicalString(field)
		if !ok {
			d.logger.Debug("Non-canonical string field kept raw.", "field", fmt.Sprintf("%X", field))
			return script.Raw(field), nil
		}
		if slot.Kind == profile.ArgString16 {
			return script.String16(s), nil
		}
		return script.String32(s), nil

	case profile.ArgNumber:
		v, err := r.I32()
		if err != nil {
			return nil, err
		}
		return script.Number(v), nil

	case profile.ArgEnum:
		v, err := r.I32()
		if err != nil {
			return nil, err
		}
		if e, ok := d.p.Enum(slot.Enum); ok {
			if name, ok := e.Name(v); ok {
				return script.NamedValue(name), nil
			}
		}
		return script.Number(v), nil

	case profile.ArgAccessedValue:
		tag, err := r.I32()
		if err != nil {
			return nil, err
		}
		v, err := r.I32()
		if err != nil {
			return nil, err
		}
		switch tag {
		case d.p.LiteralTag:
			return script.Val(v), nil
		case d.p.VariableTag:
			if name, ok := d.p.Variables.Name(v); ok {
				return script.MemNamed(name), nil
			}
			return script.MemID(v), nil
		default:
			d.logger.Debug("Tagged value with unrecognized tag kept verbatim.", "tag", tag, "value", v)
			return script.BadTag{Tag: tag, Value: v}, nil
		}

	default:
		b, err := r.Bytes(slot.Size)
		if err != nil {
			return nil, err
		}
		return script.Raw(b), nil
	}
}
