// Package yaml loads game profiles written in YAML. It accepts the same
// content as the HCL loader:
//
//	layout: sized
//	jump_tables: [0]
//	variables:
//	  Health: 10
//	enums:
//	  Direction: {Left: 0, Right: 1}
//	instructions:
//	  - id: 0
//	    name: startState
//	    size: 36
//	    block: begin
//	    args: [s32]
package yaml
