package profile

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/vk/bbscript/internal/cursor"
)

// Layout selects how instruction boundaries are framed in the body.
type Layout int

const (
	// LayoutSized instructions are an id followed by a payload whose size is
	// fixed per id by the profile.
	LayoutSized Layout = iota
	// LayoutUnsized instructions carry an explicit u32 size after the id.
	LayoutUnsized
)

func (l Layout) String() string {
	switch l {
	case LayoutSized:
		return "sized"
	case LayoutUnsized:
		return "unsized"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Frame sizes of the instruction header for each layout.
const (
	SizedHeader   = 4 // id
	UnsizedHeader = 8 // id + size
)

// DefaultLiteralTag and DefaultVariableTag are the tag values used by most
// games for tagged literal values and variable references.
const (
	DefaultLiteralTag  int32 = 0
	DefaultVariableTag int32 = 2
)

// Profile is the complete description of one game's script format.
type Profile struct {
	Name      string
	BigEndian bool
	Layout    Layout

	// JumpTableIDs lists the instruction ids that register entries in the
	// header, in header order. Each id owns one table.
	JumpTableIDs []uint32

	LiteralTag  int32
	VariableTag int32

	// Variables names values referenced through the variable tag.
	Variables *Enum
	// Enums are the named value maps referenced by ArgEnum slots.
	Enums map[string]*Enum

	instructions map[uint32]*InstructionDef
	byName       map[string]*InstructionDef
}

// New returns an empty profile with default tags and the sized layout.
func New(name string) *Profile {
	return &Profile{
		Name:         name,
		LiteralTag:   DefaultLiteralTag,
		VariableTag:  DefaultVariableTag,
		Variables:    NewEnum(),
		Enums:        make(map[string]*Enum),
		instructions: make(map[uint32]*InstructionDef),
		byName:       make(map[string]*InstructionDef),
	}
}

// AddInstruction registers an instruction definition. Ids and non-empty
// names must be unique.
func (p *Profile) AddInstruction(def InstructionDef) error {
	if _, dup := p.instructions[def.ID]; dup {
		return fmt.Errorf("duplicate instruction id %d", def.ID)
	}
	if def.Name != "" {
		if other, dup := p.byName[def.Name]; dup {
			return fmt.Errorf("instruction name %q used by ids %d and %d", def.Name, other.ID, def.ID)
		}
	}
	d := def
	d.Args = slices.Clone(def.Args)
	p.instructions[d.ID] = &d
	if d.Name != "" {
		p.byName[d.Name] = &d
	}
	return nil
}

// AddEnum registers a named value map.
func (p *Profile) AddEnum(name string, e *Enum) error {
	if _, dup := p.Enums[name]; dup {
		return fmt.Errorf("duplicate enum %q", name)
	}
	p.Enums[name] = e
	return nil
}

// Instruction looks up a definition by id.
func (p *Profile) Instruction(id uint32) (*InstructionDef, bool) {
	if p == nil {
		return nil, false
	}
	d, ok := p.instructions[id]
	return d, ok
}

// InstructionByName looks up a definition by display name.
func (p *Profile) InstructionByName(name string) (*InstructionDef, bool) {
	if p == nil {
		return nil, false
	}
	d, ok := p.byName[name]
	return d, ok
}

// Instructions returns all definitions ordered by id.
func (p *Profile) Instructions() []*InstructionDef {
	defs := make([]*InstructionDef, 0, len(p.instructions))
	for _, d := range p.instructions {
		defs = append(defs, d)
	}
	slices.SortFunc(defs, func(a, b *InstructionDef) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return defs
}

// JumpTable returns the index of the header table owned by id.
func (p *Profile) JumpTable(id uint32) (int, bool) {
	i := slices.Index(p.JumpTableIDs, id)
	return i, i >= 0
}

// ByteOrder returns the byte order of multi-byte fields.
func (p *Profile) ByteOrder() cursor.ByteOrder {
	if p.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// HeaderSize returns the size of an instruction's id (and size) prefix.
func (p *Profile) HeaderSize() int {
	if p.Layout == LayoutUnsized {
		return UnsizedHeader
	}
	return SizedHeader
}

// Enum returns the named value map called name.
func (p *Profile) Enum(name string) (*Enum, bool) {
	e, ok := p.Enums[name]
	return e, ok
}
