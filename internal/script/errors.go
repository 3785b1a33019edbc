package script

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bbscript/internal/cursor"
)

var (
	// ErrUnexpectedEnd means the binary buffer ran out before a required field.
	ErrUnexpectedEnd = cursor.ErrUnexpectedEnd
	// ErrUnknownTagUnsizable means an instruction id or tag has no known
	// payload size, so the rest of the buffer cannot be framed.
	ErrUnknownTagUnsizable = errors.New("unknown tag with unsizable payload")
	// ErrStringOverflow means a string literal exceeds its fixed width.
	ErrStringOverflow = errors.New("string overflows fixed width")
	// ErrGrammar means the textual input is malformed.
	ErrGrammar = errors.New("grammar parse error")
	// ErrOffsetInconsistency means the header table does not describe the body.
	ErrOffsetInconsistency = errors.New("offset inconsistency")
	// ErrSizeMismatch means an instruction's encoded size disagrees with the
	// fixed size declared by the profile.
	ErrSizeMismatch = errors.New("instruction size mismatch")
	// ErrUnresolvedName means a symbolic name has no profile entry.
	ErrUnresolvedName = errors.New("unresolved name")
)

// DecodeError locates a decode failure at a byte offset in the input.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at offset %#x: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InstructionError locates an encode failure at an instruction.
type InstructionError struct {
	Index int
	Name  string
	Err   error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *InstructionError) Unwrap() error { return e.Err }

// UnsizableError reports an instruction id the profile cannot size.
type UnsizableError struct {
	ID uint32
}

func (e *UnsizableError) Error() string {
	return fmt.Sprintf("%s: instruction id %d is not in the profile", ErrUnknownTagUnsizable, e.ID)
}

func (e *UnsizableError) Unwrap() error { return ErrUnknownTagUnsizable }

// StringOverflowError is returned when a literal does not fit its field.
type StringOverflowError struct {
	Literal string
	Width   int
}

func (e *StringOverflowError) Error() string {
	return fmt.Sprintf("%s: %q is %d bytes, field holds %d", ErrStringOverflow, e.Literal, len(e.Literal), e.Width)
}

func (e *StringOverflowError) Unwrap() error { return ErrStringOverflow }

// OffsetError describes a header table entry that does not match the body.
type OffsetError struct {
	Table  int // index into the profile's jump table ids, -1 for the whole header
	Entry  int // entry index within the table, -1 for table-wide faults
	Offset int
	Reason string
}

func (e *OffsetError) Error() string {
	if e.Table < 0 {
		return fmt.Sprintf("%s: header: %s", ErrOffsetInconsistency, e.Reason)
	}
	if e.Entry < 0 {
		return fmt.Sprintf("%s: table %d: %s", ErrOffsetInconsistency, e.Table, e.Reason)
	}
	return fmt.Sprintf("%s: table %d entry %d (offset %#x): %s", ErrOffsetInconsistency, e.Table, e.Entry, e.Offset, e.Reason)
}

func (e *OffsetError) Unwrap() error { return ErrOffsetInconsistency }

// SizeError reports an instruction whose arguments disagree with the fixed
// size declared by the profile.
type SizeError struct {
	Name string
	Got  int
	Want int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %s is %d bytes, profile declares %d", ErrSizeMismatch, e.Name, e.Got, e.Want)
}

func (e *SizeError) Unwrap() error { return ErrSizeMismatch }

// NameError reports a symbolic name that could not be resolved.
type NameError struct {
	Kind string // "instruction", "variable", "enum", ...
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnresolvedName, e.Kind, e.Name)
}

func (e *NameError) Unwrap() error { return ErrUnresolvedName }

// ParseError is a malformed-text diagnostic. It always matches ErrGrammar
// and additionally matches Err when set.
type ParseError struct {
	Pos     hcl.Pos
	Line    string // offending source line, for display
	Summary string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Summary)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGrammar}
	}
	return []error{ErrGrammar, e.Err}
}
