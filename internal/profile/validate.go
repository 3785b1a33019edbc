package profile

import (
	"errors"
	"fmt"

	"github.com/vk/bbscript/internal/script"
)

// Validate checks the integrity of a loaded profile. It reports every
// problem found rather than stopping at the first one.
func Validate(p *Profile) error {
	var errs []error

	if p.LiteralTag == p.VariableTag {
		errs = append(errs, fmt.Errorf("literal and variable tags are both %d", p.LiteralTag))
	}

	seen := make(map[uint32]bool, len(p.JumpTableIDs))
	for _, id := range p.JumpTableIDs {
		if seen[id] {
			errs = append(errs, fmt.Errorf("jump table id %d listed twice", id))
			continue
		}
		seen[id] = true

		def, ok := p.Instruction(id)
		if !ok {
			errs = append(errs, fmt.Errorf("jump table id %d has no instruction definition", id))
			continue
		}
		if first, ok := def.Slot(0); !ok || first.Kind != ArgString32 {
			errs = append(errs, fmt.Errorf("jump table instruction %d must take a s32 name as its first argument", id))
		}
	}

	for _, def := range p.Instructions() {
		label := def.Name
		if label == "" {
			label = fmt.Sprintf("id %d", def.ID)
		}
		if def.Name != "" {
			if !script.IsFunctionName(def.Name) {
				errs = append(errs, fmt.Errorf("instruction %d: name %q cannot be written in text form", def.ID, def.Name))
			} else if _, reserved := script.ParseUnknownName(def.Name); reserved {
				errs = append(errs, fmt.Errorf("instruction %d: name %q is reserved for unnamed instructions", def.ID, def.Name))
			}
		}
		if p.Layout == LayoutSized {
			if def.Size < SizedHeader {
				errs = append(errs, fmt.Errorf("instruction %s: size %d is smaller than its id", label, def.Size))
			} else if known := def.KnownArgsSize(); known > def.Size-SizedHeader {
				errs = append(errs, fmt.Errorf("instruction %s: arguments need %d bytes, size allows %d", label, known, def.Size-SizedHeader))
			}
		}
		for i, a := range def.Args {
			switch a.Kind {
			case ArgEnum:
				if _, ok := p.Enum(a.Enum); !ok {
					errs = append(errs, fmt.Errorf("instruction %s argument %d: unknown enum %q", label, i, a.Enum))
				}
			case ArgUnknown:
				if a.Size <= 0 {
					errs = append(errs, fmt.Errorf("instruction %s argument %d: raw slot needs a positive size", label, i))
				}
			}
		}
	}

	errs = append(errs, checkSymbols("variable", p.Variables)...)
	for name, e := range p.Enums {
		errs = append(errs, checkSymbols("enum "+name+" member", e)...)
	}

	return errors.Join(errs...)
}

func checkSymbols(kind string, e *Enum) []error {
	var errs []error
	for _, v := range e.Values() {
		name, _ := e.Name(v)
		if !script.IsSymbol(name) {
			errs = append(errs, fmt.Errorf("%s %q cannot be written in text form", kind, name))
		}
	}
	return errs
}
