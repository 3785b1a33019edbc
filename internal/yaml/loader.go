package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/profile"
	"gopkg.in/yaml.v3"
)

// profileFile is the document layout of a YAML profile.
type profileFile struct {
	Game         string                      `yaml:"game"`
	BigEndian    bool                        `yaml:"big_endian"`
	Layout       string                      `yaml:"layout"`
	JumpTables   []uint32                    `yaml:"jump_tables"`
	LiteralTag   *int32                      `yaml:"literal_tag"`
	VariableTag  *int32                      `yaml:"variable_tag"`
	Variables    map[string]int32            `yaml:"variables"`
	Enums        map[string]map[string]int32 `yaml:"enums"`
	Instructions []instructionEntry          `yaml:"instructions"`
}

type instructionEntry struct {
	ID    *uint32  `yaml:"id"`
	Name  string   `yaml:"name"`
	Size  int      `yaml:"size"`
	Block string   `yaml:"block"`
	Args  []string `yaml:"args"`
}

// Loader is the YAML implementation of profile.Loader.
type Loader struct{}

// NewLoader creates a new YAML profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements profile.Loader.
func (l *Loader) Extensions() []string { return []string{".yaml", ".yml"} }

// Load reads and validates the profile at path.
func (l *Loader) Load(ctx context.Context, path string) (*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading YAML profile: %w", err)
	}
	return l.Parse(ctx, data, path)
}

// Parse decodes profile source held in memory. Unknown keys are rejected.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*profile.Profile, error) {
	var doc profileFile
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML profile %s: %w", filename, err)
	}

	m := &profile.Model{
		Name:        doc.Game,
		BigEndian:   doc.BigEndian,
		Layout:      doc.Layout,
		JumpTables:  doc.JumpTables,
		LiteralTag:  doc.LiteralTag,
		VariableTag: doc.VariableTag,
		Variables:   doc.Variables,
		Enums:       doc.Enums,
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	for i, in := range doc.Instructions {
		if in.ID == nil {
			return nil, fmt.Errorf("in YAML profile %s: instruction entry %d has no id", filename, i)
		}
		m.Instructions = append(m.Instructions, profile.InstructionModel{
			ID:    *in.ID,
			Name:  in.Name,
			Size:  in.Size,
			Block: in.Block,
			Args:  in.Args,
		})
	}

	p, err := profile.Build(m)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", filename, err)
	}
	ctxlog.FromContext(ctx).Debug("YAML profile loaded.",
		"path", filename,
		"game", p.Name,
		"layout", p.Layout,
		"instructions", len(m.Instructions),
	)
	return p, nil
}
