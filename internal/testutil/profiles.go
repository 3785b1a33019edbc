package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/bbscript/internal/profile"
)

// Instruction ids of the sample profile.
const (
	IDStartState uint32 = 0
	IDEndState   uint32 = 1
	IDSprite     uint32 = 2
	IDSetVar     uint32 = 3
	IDFace       uint32 = 4
	IDBlob       uint32 = 5
	IDLabel      uint32 = 6
	IDUpon       uint32 = 14
	IDEndUpon    uint32 = 15
)

// Variable ids named by the sample profile.
const (
	VarHealth int32 = 10
	VarMeter  int32 = 11
)

type sampleDef struct {
	id    uint32
	name  string
	size  int
	block profile.BlockKind
	args  []string
}

var sampleDefs = []sampleDef{
	{IDStartState, "startState", 36, profile.BlockBegin, []string{"s32"}},
	{IDEndState, "endState", 4, profile.BlockEnd, nil},
	{IDSprite, "sprite", 40, profile.BlockNone, []string{"s32", "i"}},
	{IDSetVar, "setVar", 20, profile.BlockNone, []string{"v", "v"}},
	{IDFace, "face", 8, profile.BlockNone, []string{"enum:Direction"}},
	{IDBlob, "blob", 12, profile.BlockNone, nil},
	{IDLabel, "label", 20, profile.BlockNone, []string{"s16"}},
	{IDUpon, "upon", 8, profile.BlockBeginNonrecursive, []string{"i"}},
	{IDEndUpon, "endUpon", 4, profile.BlockEnd, nil},
}

// SampleProfile returns a small sized-layout profile with one jump table
// (startState), named variables, and a Direction enum.
func SampleProfile(t testing.TB) *profile.Profile {
	t.Helper()
	return buildSample(t, profile.LayoutSized)
}

// UnsizedSampleProfile returns the sample definitions in the unsized layout.
func UnsizedSampleProfile(t testing.TB) *profile.Profile {
	t.Helper()
	return buildSample(t, profile.LayoutUnsized)
}

func buildSample(t testing.TB, layout profile.Layout) *profile.Profile {
	t.Helper()
	p := profile.New("sample")
	p.Layout = layout
	p.JumpTableIDs = []uint32{IDStartState}

	require.NoError(t, p.Variables.Add(VarHealth, "Health"))
	require.NoError(t, p.Variables.Add(VarMeter, "Meter"))

	dir := profile.NewEnum()
	require.NoError(t, dir.Add(0, "Left"))
	require.NoError(t, dir.Add(1, "Right"))
	require.NoError(t, p.AddEnum("Direction", dir))

	for _, d := range sampleDefs {
		args, err := profile.ParseArgTypes(d.args)
		require.NoError(t, err)
		def := profile.InstructionDef{ID: d.id, Name: d.name, Block: d.block, Args: args}
		if layout == profile.LayoutSized {
			def.Size = d.size
		}
		require.NoError(t, p.AddInstruction(def))
	}
	require.NoError(t, profile.Validate(p))
	return p
}
