package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleGame is the game name under which WriteSampleDB stores the profile.
const SampleGame = "sample"

// SampleHCL is SampleProfile written as an HCL profile file.
const SampleHCL = `
layout      = "sized"
jump_tables = [0]

variables = {
  Health = 10
  Meter  = 11
}

enum "Direction" {
  values = { Left = 0, Right = 1 }
}

instruction "0" {
  name  = "startState"
  size  = 36
  block = "begin"
  args  = ["s32"]
}
instruction "1" {
  name  = "endState"
  size  = 4
  block = "end"
}
instruction "2" {
  name = "sprite"
  size = 40
  args = ["s32", "i"]
}
instruction "3" {
  name = "setVar"
  size = 20
  args = ["v", "v"]
}
instruction "4" {
  name = "face"
  size = 8
  args = ["enum:Direction"]
}
instruction "5" {
  name = "blob"
  size = 12
}
instruction "6" {
  name = "label"
  size = 20
  args = ["s16"]
}
instruction "14" {
  name  = "upon"
  size  = 8
  block = "begin_nonrecursive"
  args  = ["i"]
}
instruction "15" {
  name  = "endUpon"
  size  = 4
  block = "end"
}
`

// WriteSampleDB creates a profile folder holding SampleHCL and returns its
// path.
func WriteSampleDB(t testing.TB) string {
	t.Helper()
	db := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(db, SampleGame+".hcl"), []byte(SampleHCL), 0o644))
	return db
}

// WriteFile writes data below dir, creating parent folders, and returns the
// full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
