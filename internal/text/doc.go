// Package text reads and writes the editable form of a script.
//
// Each instruction is one line:
//
//	sprite: s32'stand_00', 5
//	setVar: Mem(Health), Val(42)
//	face: (Right)
//	Unknown40: 0xDEAD
//
// Arguments are written in the constructor form of their variant:
// s16'...' and s32'...' strings (with \' and \\ as the only escapes),
// Mem(name) or Mem(id), Val(n), BadTag(tag, value), (member) for enum
// values, 0x-prefixed hex blobs and plain decimal numbers. A newline right
// after a comma continues the argument list. // and /* */ comments are
// ignored.
//
// Indentation is cosmetic; it follows the block kinds of the profile.
package text
