package script

import (
	"strconv"
	"strings"
)

// UnknownPrefix is the display prefix for instructions with no profile name.
const UnknownPrefix = "Unknown"

// Instruction is one function record: an instruction id and its ordered
// arguments. Offset is the byte position of the record relative to the end
// of the header table; decode fills it in and encode recomputes it.
type Instruction struct {
	ID     uint32
	Name   string
	Offset int
	Args   []Arg
}

// DisplayName returns Name, or "Unknown<ID>" when the profile has none.
func (in *Instruction) DisplayName() string {
	if in.Name != "" {
		return in.Name
	}
	return UnknownPrefix + strconv.FormatUint(uint64(in.ID), 10)
}

// ArgsSize returns the encoded size of the arguments, excluding the id and any
// size field.
func (in *Instruction) ArgsSize() int {
	return ArgsSize(in.Args)
}

// StateName returns the literal name of a state instruction, taken from its
// first argument. The second result is false if the first argument is not a
// 32-byte field.
func (in *Instruction) StateName() ([]byte, bool) {
	if len(in.Args) == 0 {
		return nil, false
	}
	switch v := in.Args[0].(type) {
	case String32:
		if len(v) > String32Width {
			return nil, false
		}
		field := make([]byte, String32Width)
		copy(field, v)
		return field, true
	case Raw:
		if len(v) != String32Width {
			return nil, false
		}
		return []byte(v), true
	}
	return nil, false
}

// ParseUnknownName extracts the id from an "Unknown<ID>" display name.
func ParseUnknownName(name string) (uint32, bool) {
	rest, ok := strings.CutPrefix(name, UnknownPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// Script is an ordered sequence of instructions.
type Script struct {
	Instructions []Instruction
}
