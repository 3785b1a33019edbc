// Package hcl loads game profiles written in HCL.
//
// A profile file looks like:
//
//	big_endian   = false
//	layout       = "sized"
//	jump_tables  = [0]
//	variable_tag = 2
//
//	variables = {
//	  Health = 10
//	}
//
//	enum "Direction" {
//	  values = { Left = 0, Right = 1 }
//	}
//
//	instruction "0" {
//	  name  = "startState"
//	  size  = 36
//	  block = "begin"
//	  args  = ["s32"]
//	}
//
// Instruction labels are ids, in decimal or 0x-prefixed hex.
package hcl
