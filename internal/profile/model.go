package profile

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Model is the format-agnostic form of a profile file. Format loaders decode
// their files into a Model and call Build.
type Model struct {
	Name      string
	BigEndian bool
	// Layout is "sized" (the default when empty) or "unsized".
	Layout      string
	JumpTables  []uint32
	LiteralTag  *int32
	VariableTag *int32

	// Variables maps variable names to ids.
	Variables map[string]int32
	// Enums maps enum names to their member name/value maps.
	Enums        map[string]map[string]int32
	Instructions []InstructionModel
}

// InstructionModel is one instruction entry of a profile file.
type InstructionModel struct {
	ID    uint32
	Name  string
	Size  int // total size including the id; sized layout only
	Block string
	Args  []string
}

// ParseLayout accepts the layout names used in profile files.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "sized":
		return LayoutSized, nil
	case "unsized":
		return LayoutUnsized, nil
	default:
		return LayoutSized, fmt.Errorf("unknown layout %q, want sized or unsized", s)
	}
}

// Build turns a decoded model into a validated Profile. Every problem found
// is reported.
func Build(m *Model) (*Profile, error) {
	p := New(m.Name)
	p.BigEndian = m.BigEndian
	p.JumpTableIDs = slices.Clone(m.JumpTables)
	if m.LiteralTag != nil {
		p.LiteralTag = *m.LiteralTag
	}
	if m.VariableTag != nil {
		p.VariableTag = *m.VariableTag
	}

	var errs []error
	layout, err := ParseLayout(m.Layout)
	if err != nil {
		errs = append(errs, err)
	}
	p.Layout = layout

	if err := addNames(p.Variables, m.Variables); err != nil {
		errs = append(errs, fmt.Errorf("variables: %w", err))
	}
	for _, name := range sortedKeys(m.Enums) {
		e := NewEnum()
		if err := addNames(e, m.Enums[name]); err != nil {
			errs = append(errs, fmt.Errorf("enum %q: %w", name, err))
		}
		if err := p.AddEnum(name, e); err != nil {
			errs = append(errs, err)
		}
	}

	for _, im := range m.Instructions {
		block, err := ParseBlockKind(im.Block)
		if err != nil {
			errs = append(errs, fmt.Errorf("instruction %d: %w", im.ID, err))
		}
		args, err := ParseArgTypes(im.Args)
		if err != nil {
			errs = append(errs, fmt.Errorf("instruction %d: %w", im.ID, err))
		}
		if layout == LayoutUnsized && im.Size != 0 {
			errs = append(errs, fmt.Errorf("instruction %d: size is not used by the unsized layout", im.ID))
		}
		def := InstructionDef{ID: im.ID, Name: im.Name, Size: im.Size, Block: block, Args: args}
		if err := p.AddInstruction(def); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// addNames adds name/value pairs in value order so that error reports are
// stable.
func addNames(e *Enum, names map[string]int32) error {
	keys := sortedKeys(names)
	slices.SortStableFunc(keys, func(a, b string) int { return cmp.Compare(names[a], names[b]) })
	var errs []error
	for _, name := range keys {
		if err := e.Add(names[name], name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
