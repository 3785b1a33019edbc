package hcl

import "github.com/zclconf/go-cty/cty"

// profileFile is the top-level structure of a profile file. Unknown
// attributes and blocks are rejected.
type profileFile struct {
	Game         string              `hcl:"game,optional"`
	BigEndian    bool                `hcl:"big_endian,optional"`
	Layout       string              `hcl:"layout,optional"`
	JumpTables   []uint32            `hcl:"jump_tables,optional"`
	LiteralTag   *int32              `hcl:"literal_tag,optional"`
	VariableTag  *int32              `hcl:"variable_tag,optional"`
	Variables    cty.Value           `hcl:"variables,optional"`
	Enums        []*enumBlock        `hcl:"enum,block"`
	Instructions []*instructionBlock `hcl:"instruction,block"`
}

// enumBlock is a named value map referenced by "enum:<name>" arguments.
type enumBlock struct {
	Name   string    `hcl:"name,label"`
	Values cty.Value `hcl:"values"`
}

// instructionBlock describes one instruction id.
type instructionBlock struct {
	ID    string   `hcl:"id,label"`
	Name  string   `hcl:"name,optional"`
	Size  int      `hcl:"size,optional"`
	Block string   `hcl:"block,optional"`
	Args  []string `hcl:"args,optional"`
}
