// Package cursor provides sequential, bounds-checked access to a fixed byte
// buffer. Reader never reads past the end of its buffer: every primitive read
// either returns the requested bytes or an *EndError wrapping
// ErrUnexpectedEnd. Writer is the symmetric append-only encoder.
package cursor
