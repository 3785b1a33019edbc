package script

import (
	"bytes"
	"fmt"
)

// Fixed widths of the string argument variants.
const (
	String16Width = 0x10
	String32Width = 0x20
)

// Arg is one decoded argument slot. The set of implementations is closed:
// String16, String32, MemNamed, MemID, Val, BadTag, NamedValue, Raw and
// Number.
type Arg interface {
	// Size returns the number of bytes the argument occupies in binary form.
	Size() int
	isArg()
}

// String16 is text stored in a 16-byte zero-padded field.
type String16 string

// String32 is text stored in a 32-byte zero-padded field.
type String32 string

// MemNamed is a variable reference resolved to a profile name.
type MemNamed string

// MemID is a variable reference with no profile name.
type MemID int32

// Val is a tagged literal value.
type Val int32

// BadTag is a tagged value whose tag matches neither the literal nor the
// variable tag. Both words are kept verbatim.
type BadTag struct {
	Tag   int32
	Value int32
}

// NamedValue is an enum-typed number resolved to its member name.
type NamedValue string

// Raw is an opaque byte span reproduced verbatim.
type Raw []byte

// Number is a bare 4-byte signed integer.
type Number int32

func (String16) Size() int   { return String16Width }
func (String32) Size() int   { return String32Width }
func (MemNamed) Size() int   { return 8 }
func (MemID) Size() int      { return 8 }
func (Val) Size() int        { return 8 }
func (BadTag) Size() int     { return 8 }
func (NamedValue) Size() int { return 4 }
func (r Raw) Size() int      { return len(r) }
func (Number) Size() int     { return 4 }

func (String16) isArg()   {}
func (String32) isArg()   {}
func (MemNamed) isArg()   {}
func (MemID) isArg()      {}
func (Val) isArg()        {}
func (BadTag) isArg()     {}
func (NamedValue) isArg() {}
func (Raw) isArg()        {}
func (Number) isArg()     {}

// ArgsSize returns the summed binary size of args.
func ArgsSize(args []Arg) int {
	n := 0
	for _, a := range args {
		n += a.Size()
	}
	return n
}

// CanonicalString reports whether a fixed-width field can be represented as
// text without loss: printable ASCII up to the first zero byte, and nothing
// but zero bytes after it.
func CanonicalString(field []byte) (string, bool) {
	end := bytes.IndexByte(field, 0)
	if end < 0 {
		end = len(field)
	}
	for _, c := range field[:end] {
		if c < 0x20 || c > 0x7E {
			return "", false
		}
	}
	for _, c := range field[end:] {
		if c != 0 {
			return "", false
		}
	}
	return string(field[:end]), true
}

// CheckWidth returns a *StringOverflowError if a string argument exceeds its
// fixed width. Other variants always pass.
func CheckWidth(a Arg) error {
	switch v := a.(type) {
	case String16:
		if len(v) > String16Width {
			return &StringOverflowError{Literal: string(v), Width: String16Width}
		}
	case String32:
		if len(v) > String32Width {
			return &StringOverflowError{Literal: string(v), Width: String32Width}
		}
	}
	return nil
}

// Describe returns a short debugging representation of an argument.
func Describe(a Arg) string {
	switch v := a.(type) {
	case String16:
		return fmt.Sprintf("String16(%q)", string(v))
	case String32:
		return fmt.Sprintf("String32(%q)", string(v))
	case MemNamed:
		return fmt.Sprintf("MemNamed(%s)", string(v))
	case MemID:
		return fmt.Sprintf("MemID(%d)", int32(v))
	case Val:
		return fmt.Sprintf("Val(%d)", int32(v))
	case BadTag:
		return fmt.Sprintf("BadTag(%d, %d)", v.Tag, v.Value)
	case NamedValue:
		return fmt.Sprintf("NamedValue(%s)", string(v))
	case Raw:
		return fmt.Sprintf("Raw(%X)", []byte(v))
	case Number:
		return fmt.Sprintf("Number(%d)", int32(v))
	default:
		return fmt.Sprintf("%T", a)
	}
}
