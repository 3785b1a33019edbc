package codec

import (
	"bytes"
	"fmt"

	"github.com/vk/bbscript/internal/cursor"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/script"
)

// EntrySize is the size of one header table entry: a 32-byte name and a u32
// offset.
const EntrySize = script.String32Width + 4

// entry is one header table row.
type entry struct {
	name   []byte
	offset int
}

// header is the decoded function table: one slice of entries per jump table.
type header struct {
	tables [][]entry
	size   int // byte length of the header; the body starts here
}

// readHeader reads the table counts and entries from the start of r.
func readHeader(r *cursor.Reader, p *profile.Profile) (*header, error) {
	counts := make([]uint64, len(p.JumpTableIDs))
	var total uint64
	for i := range counts {
		n, err := r.U32()
		if err != nil {
			return nil, &script.DecodeError{Offset: r.Pos(), Err: err}
		}
		counts[i] = uint64(n)
		total += uint64(n)
	}

	size := uint64(4*len(counts)) + total*EntrySize
	if size > uint64(r.Len()) {
		return nil, &script.OffsetError{
			Table:  -1,
			Entry:  -1,
			Reason: fmt.Sprintf("%d table entries need %#x bytes, buffer has %#x; is the profile right?", total, size, r.Len()),
		}
	}

	h := &header{tables: make([][]entry, len(counts)), size: int(size)}
	for i, n := range counts {
		h.tables[i] = make([]entry, 0, n)
		for range n {
			name, err := r.Bytes(script.String32Width)
			if err != nil {
				return nil, &script.DecodeError{Offset: r.Pos(), Err: err}
			}
			off, err := r.U32()
			if err != nil {
				return nil, &script.DecodeError{Offset: r.Pos(), Err: err}
			}
			h.tables[i] = append(h.tables[i], entry{name: name, offset: int(off)})
		}
	}
	return h, nil
}

// check verifies that the header describes exactly the state instructions of
// the decoded body, in order. Re-encoding rebuilds the header from the body,
// so any disagreement here would otherwise be lost silently.
func (h *header) check(p *profile.Profile, body []script.Instruction, bodyLen int) error {
	at := make(map[int]int, len(body))
	for i := range body {
		at[body[i].Offset] = i
	}

	for ti, entries := range h.tables {
		id := p.JumpTableIDs[ti]
		prev := -1
		for ei, e := range entries {
			fail := func(format string, args ...any) error {
				return &script.OffsetError{Table: ti, Entry: ei, Offset: e.offset, Reason: fmt.Sprintf(format, args...)}
			}
			if e.offset >= bodyLen {
				return fail("points past the end of the body (%#x bytes)", bodyLen)
			}
			if e.offset <= prev {
				return fail("overlaps or precedes the previous entry at %#x", prev)
			}
			idx, ok := at[e.offset]
			if !ok {
				return fail("does not start an instruction")
			}
			in := &body[idx]
			if in.ID != id {
				return fail("points at %s, want instruction id %d", in.DisplayName(), id)
			}
			name, ok := in.StateName()
			if !ok || !bytes.Equal(name, e.name) {
				return fail("name %q differs from the state's own name", bytes.TrimRight(e.name, "\x00"))
			}
			prev = e.offset
		}

		states := 0
		for i := range body {
			if body[i].ID == id {
				states++
			}
		}
		if states != len(entries) {
			return &script.OffsetError{
				Table:  ti,
				Entry:  -1,
				Reason: fmt.Sprintf("body has %d state instructions, header lists %d", states, len(entries)),
			}
		}
	}
	return nil
}

// write emits the header for the given tables.
func (h *header) write(w *cursor.Writer) {
	for _, t := range h.tables {
		w.PutU32(uint32(len(t)))
	}
	for _, t := range h.tables {
		for _, e := range t {
			w.PutBytes(e.name)
			w.PutU32(uint32(e.offset))
		}
	}
}
