package text

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/script"
)

// indentWidth is the number of spaces per block level.
const indentWidth = 2

// DefaultIndentLimit caps the printed nesting depth.
const DefaultIndentLimit = 8

// Options controls the text layout. Layout never affects what Parse reads
// back.
type Options struct {
	// IndentLimit is the deepest block level that still indents. Zero turns
	// indentation off.
	IndentLimit int
}

// Format returns the text form of s.
func Format(s *script.Script, p *profile.Profile, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, s, p, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders s one instruction per line, indented by the block kinds the
// profile declares.
func Write(w io.Writer, s *script.Script, p *profile.Profile, opts Options) error {
	bw := bufio.NewWriter(w)
	var (
		depth     int
		lastBegin uint32 // id of the innermost block opener
		open      bool   // lastBegin still names an open block
	)
	for i := range s.Instructions {
		in := &s.Instructions[i]
		name := in.DisplayName()
		block := profile.BlockNone
		if def, ok := p.Instruction(in.ID); ok {
			block = def.Block
			if def.Name != "" {
				name = def.Name
			}
		}

		closedTop := false
		switch block {
		case profile.BlockBeginNonrecursive:
			if open && lastBegin == in.ID && depth > 0 {
				depth--
				open = false
			}
		case profile.BlockEnd:
			if depth > 0 {
				depth--
				open = false
				closedTop = depth == 0
			}
		}

		line, err := formatInstruction(name, in.Args)
		if err != nil {
			return &script.InstructionError{Index: i, Name: name, Err: err}
		}
		bw.WriteString(strings.Repeat(" ", min(depth, max(opts.IndentLimit, 0))*indentWidth))
		bw.WriteString(line)
		bw.WriteByte('\n')

		if block == profile.BlockBegin || block == profile.BlockBeginNonrecursive {
			depth++
			lastBegin = in.ID
			open = true
		}
		if closedTop {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func formatInstruction(name string, args []script.Arg) (string, error) {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(':')
	for i, a := range args {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		s, err := FormatArg(a)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// FormatArg renders one argument in its constructor form.
func FormatArg(a script.Arg) (string, error) {
	switch v := a.(type) {
	case script.String16:
		return quote("s16", a, string(v))
	case script.String32:
		return quote("s32", a, string(v))
	case script.MemNamed:
		return "Mem(" + string(v) + ")", nil
	case script.MemID:
		return "Mem(" + strconv.FormatInt(int64(v), 10) + ")", nil
	case script.Val:
		return "Val(" + strconv.FormatInt(int64(v), 10) + ")", nil
	case script.BadTag:
		return fmt.Sprintf("BadTag(%d, %d)", v.Tag, v.Value), nil
	case script.NamedValue:
		return "(" + string(v) + ")", nil
	case script.Raw:
		return "0x" + strings.ToUpper(hex.EncodeToString(v)), nil
	case script.Number:
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("unsupported argument type %T", a)
	}
}

func quote(prefix string, a script.Arg, s string) (string, error) {
	if err := script.CheckWidth(a); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7E:
			return "", fmt.Errorf("%s literal holds non-printable byte %#x at index %d", prefix, c, i)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String(), nil
}
