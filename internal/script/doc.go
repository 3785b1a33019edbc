// Package script defines the in-memory model shared by the binary codec and
// the text grammar: instructions (function records), the closed set of
// argument variants, and the error taxonomy both sides report.
//
// Values are produced fresh by a decode or parse and consumed once by the
// opposite encoder. Nothing in this package holds state across scripts.
package script
