// Package codec converts between BBScript binary buffers and script.Script
// values.
//
// A buffer is a header followed by a body. The header holds one u32 count
// per jump table declared by the profile, then each table's entries: a
// 32-byte zero-padded state name and a u32 offset relative to the end of the
// header. The body is a contiguous stream of instructions, each an id
// followed by its arguments (and, for unsized profiles, a u32 size between
// the two).
//
// Decode never drops bytes: fields it cannot interpret become script.Raw or
// script.BadTag values, so Encode(Decode(b)) == b for every buffer Decode
// accepts. Encode recomputes all header offsets from the bytes it emits.
//
// Both directions are pure functions of the buffer and the profile; a
// profile may be shared between concurrent calls.
package codec
