package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/bbscript/internal/script"
)

// BlockKind controls indentation in the text form.
type BlockKind int

const (
	BlockNone BlockKind = iota
	// BlockBegin opens a nested block.
	BlockBegin
	// BlockBeginNonrecursive opens a block that closes any still-open block
	// of the same instruction.
	BlockBeginNonrecursive
	// BlockEnd closes the innermost block.
	BlockEnd
)

// ParseBlockKind accepts the names used in profile files.
func ParseBlockKind(s string) (BlockKind, error) {
	switch strings.ToLower(s) {
	case "", "none", "noblock":
		return BlockNone, nil
	case "begin":
		return BlockBegin, nil
	case "begin_nonrecursive", "beginnonrecursive":
		return BlockBeginNonrecursive, nil
	case "end":
		return BlockEnd, nil
	default:
		return BlockNone, fmt.Errorf("unknown block kind %q", s)
	}
}

// ArgKind is the declared type of an argument slot.
type ArgKind int

const (
	// ArgUnknown is an opaque span of Size bytes.
	ArgUnknown ArgKind = iota
	ArgString16
	ArgString32
	ArgNumber
	// ArgEnum is a number whose values are named by the enum in ArgType.Enum.
	ArgEnum
	// ArgAccessedValue is a tag word followed by a value word.
	ArgAccessedValue
)

// ArgType describes one argument slot of an instruction.
type ArgType struct {
	Kind ArgKind
	Enum string // ArgEnum only
	Size int    // ArgUnknown only
}

// Width returns the encoded size of the slot.
func (a ArgType) Width() int {
	switch a.Kind {
	case ArgString16:
		return script.String16Width
	case ArgString32:
		return script.String32Width
	case ArgNumber, ArgEnum:
		return 4
	case ArgAccessedValue:
		return 8
	default:
		return a.Size
	}
}

func (a ArgType) String() string {
	switch a.Kind {
	case ArgString16:
		return "s16"
	case ArgString32:
		return "s32"
	case ArgNumber:
		return "i"
	case ArgEnum:
		return "enum:" + a.Enum
	case ArgAccessedValue:
		return "v"
	default:
		return "raw:" + strconv.Itoa(a.Size)
	}
}

// ParseArgType parses the compact slot notation used in profile files:
// "s16", "s32", "i" (or "number"), "v" (or "value"), "enum:<name>" and
// "raw:<bytes>".
func ParseArgType(s string) (ArgType, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "s16", "16s":
		return ArgType{Kind: ArgString16}, nil
	case "s32", "32s":
		return ArgType{Kind: ArgString32}, nil
	case "i", "number":
		return ArgType{Kind: ArgNumber}, nil
	case "v", "value":
		return ArgType{Kind: ArgAccessedValue}, nil
	}
	if name, ok := strings.CutPrefix(s, "enum:"); ok && name != "" {
		return ArgType{Kind: ArgEnum, Enum: name}, nil
	}
	if n, ok := strings.CutPrefix(s, "raw:"); ok {
		size, err := strconv.Atoi(n)
		if err != nil || size <= 0 {
			return ArgType{}, fmt.Errorf("invalid raw size in %q", s)
		}
		return ArgType{Kind: ArgUnknown, Size: size}, nil
	}
	return ArgType{}, fmt.Errorf("unknown argument type %q", s)
}

// ParseArgTypes parses a list of slot notations.
func ParseArgTypes(list []string) ([]ArgType, error) {
	out := make([]ArgType, 0, len(list))
	for i, s := range list {
		a, err := ParseArgType(s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// InstructionDef is the profile entry for one instruction id.
type InstructionDef struct {
	ID    uint32
	Name  string
	Size  int // total size including the id; sized layout only
	Block BlockKind
	Args  []ArgType
}

// KnownArgsSize returns the summed width of the declared slots.
func (d *InstructionDef) KnownArgsSize() int {
	n := 0
	for _, a := range d.Args {
		n += a.Width()
	}
	return n
}

// SlotsFor returns the slots that frame a payload of n bytes: the declared
// slots, plus a trailing opaque slot for any bytes they leave uncovered. It
// returns false if the declared slots do not fit.
func (d *InstructionDef) SlotsFor(n int) ([]ArgType, bool) {
	known := d.KnownArgsSize()
	if known > n {
		return nil, false
	}
	slots := d.Args
	if known < n {
		slots = append(slots[:len(slots):len(slots)], ArgType{Kind: ArgUnknown, Size: n - known})
	}
	return slots, true
}

// Slot returns the declared slot at position i.
func (d *InstructionDef) Slot(i int) (ArgType, bool) {
	if d == nil || i < 0 || i >= len(d.Args) {
		return ArgType{}, false
	}
	return d.Args[i], true
}
