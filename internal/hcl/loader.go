package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/profile"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Loader is the HCL implementation of profile.Loader.
type Loader struct{}

// NewLoader creates a new HCL profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements profile.Loader.
func (l *Loader) Extensions() []string { return []string{".hcl"} }

// Load reads and validates the profile at path. The profile is named after
// the file unless it sets `game`.
func (l *Loader) Load(ctx context.Context, path string) (*profile.Profile, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL profile %s: %w", path, diags)
	}
	return l.decode(ctx, f, path)
}

// Parse decodes profile source held in memory. filename is used in
// diagnostics and as the default profile name.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*profile.Profile, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL profile %s: %w", filename, diags)
	}
	return l.decode(ctx, f, filename)
}

func (l *Loader) decode(ctx context.Context, f *hcl.File, path string) (*profile.Profile, error) {
	logger := ctxlog.FromContext(ctx)

	var root profileFile
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL profile %s: %w", path, diags)
	}

	m, err := translate(&root)
	if err != nil {
		return nil, fmt.Errorf("in HCL profile %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	p, err := profile.Build(m)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	logger.Debug("HCL profile loaded.",
		"path", path,
		"game", p.Name,
		"layout", p.Layout,
		"instructions", len(m.Instructions),
		"enums", len(m.Enums),
		"variables", len(m.Variables),
	)
	return p, nil
}

// translate converts the HCL schema structs into the format-agnostic model.
func translate(root *profileFile) (*profile.Model, error) {
	m := &profile.Model{
		Name:        root.Game,
		BigEndian:   root.BigEndian,
		Layout:      root.Layout,
		JumpTables:  root.JumpTables,
		LiteralTag:  root.LiteralTag,
		VariableTag: root.VariableTag,
		Enums:       make(map[string]map[string]int32, len(root.Enums)),
	}

	vars, err := nameMap(root.Variables)
	if err != nil {
		return nil, fmt.Errorf("variables: %w", err)
	}
	m.Variables = vars

	for _, e := range root.Enums {
		if _, dup := m.Enums[e.Name]; dup {
			return nil, fmt.Errorf("enum %q declared twice", e.Name)
		}
		values, err := nameMap(e.Values)
		if err != nil {
			return nil, fmt.Errorf("enum %q: %w", e.Name, err)
		}
		m.Enums[e.Name] = values
	}

	for _, in := range root.Instructions {
		id, err := strconv.ParseUint(in.ID, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("instruction label %q is not a 32-bit id", in.ID)
		}
		m.Instructions = append(m.Instructions, profile.InstructionModel{
			ID:    uint32(id),
			Name:  in.Name,
			Size:  in.Size,
			Block: in.Block,
			Args:  in.Args,
		})
	}
	return m, nil
}

// nameMap converts an object of numbers, such as `{ Health = 10 }`, into a
// name to value map.
func nameMap(v cty.Value) (map[string]int32, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	mv, err := convert.Convert(v, cty.Map(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("must be an object of numbers: %w", err)
	}
	var out map[string]int32
	if err := gocty.FromCtyValue(mv, &out); err != nil {
		return nil, fmt.Errorf("values must be 32-bit integers: %w", err)
	}
	return out, nil
}
