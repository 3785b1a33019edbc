package text

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/script"
)

// Parse reads the text form of a script. Every malformed entry is reported:
// on failure the returned error joins one *script.ParseError per bad entry
// and no script is returned.
func Parse(src []byte, p *profile.Profile) (*script.Script, error) {
	if p == nil {
		return nil, errors.New("parse: nil profile")
	}
	ps := &parser{lx: newLexer(src), p: p}

	var (
		out  []script.Instruction
		errs []error
	)
	for {
		if err := ps.lx.skipSpace(true); err != nil {
			errs = append(errs, err)
			break
		}
		if ps.lx.eof() {
			break
		}
		in, err := ps.entry()
		if err != nil {
			errs = append(errs, err)
			ps.lx.syncLine()
			continue
		}
		out = append(out, in)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &script.Script{Instructions: out}, nil
}

type parser struct {
	lx *lexer
	p  *profile.Profile
}

// entry parses `name ':' [arg (',' arg)*]` up to the end of its line.
func (ps *parser) entry() (script.Instruction, error) {
	var in script.Instruction
	name, pos := ps.lx.name()
	if name == "" {
		return in, ps.lx.errorf(pos, nil, "expected instruction name")
	}
	tok, err := ps.lx.next()
	if err != nil {
		return in, err
	}
	if tok.kind != tokColon {
		return in, ps.lx.errorf(tok.pos, nil, "expected ':' after instruction name %q, found %s", name, tok.describe())
	}

	def, err := ps.resolve(name, pos, &in)
	if err != nil {
		return in, err
	}

	tok, err = ps.lx.next()
	if err != nil {
		return in, err
	}
	if tok.kind == tokNewline || tok.kind == tokEOF {
		return in, nil
	}
	for i := 0; ; i++ {
		a, err := ps.arg(tok, def, i)
		if err != nil {
			return in, err
		}
		in.Args = append(in.Args, a)

		tok, err = ps.lx.next()
		if err != nil {
			return in, err
		}
		switch tok.kind {
		case tokNewline, tokEOF:
			return in, nil
		case tokComma:
			// A newline after a comma continues the argument list.
			if err := ps.lx.skipSpace(true); err != nil {
				return in, err
			}
			if tok, err = ps.lx.next(); err != nil {
				return in, err
			}
			if tok.kind == tokEOF {
				return in, ps.lx.errorf(tok.pos, nil, "expected argument after ','")
			}
		default:
			return in, ps.lx.errorf(tok.pos, nil, "expected ',' or end of line, found %s", tok.describe())
		}
	}
}

// resolve maps an instruction name to its id through the profile, falling
// back to the Unknown<id> form.
func (ps *parser) resolve(name string, pos hcl.Pos, in *script.Instruction) (*profile.InstructionDef, error) {
	if def, ok := ps.p.InstructionByName(name); ok {
		in.ID, in.Name = def.ID, def.Name
		return def, nil
	}
	if id, ok := script.ParseUnknownName(name); ok {
		in.ID = id
		def, _ := ps.p.Instruction(id)
		if def != nil {
			in.Name = def.Name
		}
		return def, nil
	}
	return nil, ps.lx.errorf(pos, &script.NameError{Kind: "instruction", Name: name},
		"unknown instruction %q", name)
}

// arg parses one argument starting at tok. def may be nil for instructions
// the profile does not know; enum members then cannot be resolved.
func (ps *parser) arg(tok token, def *profile.InstructionDef, i int) (script.Arg, error) {
	switch tok.kind {
	case tokString:
		var a script.Arg = script.String32(tok.text)
		if tok.width == script.String16Width {
			a = script.String16(tok.text)
		}
		if err := script.CheckWidth(a); err != nil {
			return nil, ps.lx.errorf(tok.pos, err, "string literal of %d bytes exceeds s%d", len(tok.text), tok.width)
		}
		return a, nil

	case tokInt:
		v, err := ps.int32(tok)
		if err != nil {
			return nil, err
		}
		return script.Number(v), nil

	case tokHex:
		digits := tok.text[2:]
		if len(digits)%2 != 0 {
			return nil, ps.lx.errorf(tok.pos, nil, "hex blob %s has an odd number of digits", tok.text)
		}
		b, err := hex.DecodeString(digits)
		if err != nil {
			return nil, ps.lx.errorf(tok.pos, nil, "malformed hex blob %s", tok.text)
		}
		return script.Raw(b), nil

	case tokLParen:
		name, err := ps.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := ps.expect(tokRParen); err != nil {
			return nil, err
		}
		return ps.namedValue(name, def, i)

	case tokIdent:
		return ps.constructor(tok)

	default:
		return nil, ps.lx.errorf(tok.pos, nil, "expected argument, found %s", tok.describe())
	}
}

// constructor parses Mem(...), Val(...) and BadTag(..., ...).
func (ps *parser) constructor(tok token) (script.Arg, error) {
	switch tok.text {
	case "Mem", "Val", "BadTag":
	default:
		return nil, ps.lx.errorf(tok.pos, nil, "unknown constructor %q", tok.text)
	}
	if _, err := ps.expect(tokLParen); err != nil {
		return nil, err
	}

	var a script.Arg
	switch tok.text {
	case "Mem":
		inner, err := ps.lx.next()
		if err != nil {
			return nil, err
		}
		switch inner.kind {
		case tokInt:
			v, err := ps.int32(inner)
			if err != nil {
				return nil, err
			}
			a = script.MemID(v)
		case tokIdent:
			if _, ok := ps.p.Variables.Value(inner.text); !ok {
				return nil, ps.lx.errorf(inner.pos, &script.NameError{Kind: "variable", Name: inner.text},
					"unknown variable %q", inner.text)
			}
			a = script.MemNamed(inner.text)
		default:
			return nil, ps.lx.errorf(inner.pos, nil, "expected variable name or id, found %s", inner.describe())
		}

	case "Val":
		v, err := ps.expectInt()
		if err != nil {
			return nil, err
		}
		a = script.Val(v)

	case "BadTag":
		tag, err := ps.expectInt()
		if err != nil {
			return nil, err
		}
		if _, err := ps.expect(tokComma); err != nil {
			return nil, err
		}
		v, err := ps.expectInt()
		if err != nil {
			return nil, err
		}
		a = script.BadTag{Tag: tag, Value: v}
	}

	if _, err := ps.expect(tokRParen); err != nil {
		return nil, err
	}
	return a, nil
}

// namedValue resolves an enum member against the enum of argument slot i.
func (ps *parser) namedValue(name token, def *profile.InstructionDef, i int) (script.Arg, error) {
	slot, ok := def.Slot(i)
	if !ok || slot.Kind != profile.ArgEnum {
		return nil, ps.lx.errorf(name.pos, &script.NameError{Kind: "named value outside an enum slot", Name: name.text},
			"argument %d takes no named values", i)
	}
	e, _ := ps.p.Enum(slot.Enum)
	if _, ok := e.Value(name.text); !ok {
		return nil, ps.lx.errorf(name.pos, &script.NameError{Kind: "member of enum " + slot.Enum, Name: name.text},
			"%q is not a member of enum %s", name.text, slot.Enum)
	}
	return script.NamedValue(name.text), nil
}

func (ps *parser) expect(kind tokenKind) (token, error) {
	tok, err := ps.lx.next()
	if err != nil {
		return tok, err
	}
	if tok.kind != kind {
		return tok, ps.lx.errorf(tok.pos, nil, "expected %s, found %s", kind, tok.describe())
	}
	return tok, nil
}

func (ps *parser) expectInt() (int32, error) {
	tok, err := ps.expect(tokInt)
	if err != nil {
		return 0, err
	}
	return ps.int32(tok)
}

func (ps *parser) int32(tok token) (int32, error) {
	v, err := strconv.ParseInt(tok.text, 10, 32)
	if err != nil {
		return 0, ps.lx.errorf(tok.pos, nil, "integer %s is outside the 32-bit range", tok.text)
	}
	return int32(v), nil
}
