package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/cursor"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/script"
	tu "github.com/vk/bbscript/internal/testutil"
)

var ignoreOffsets = cmpopts.IgnoreFields(script.Instruction{}, "Offset")

// sampleScript exercises every argument variant the sample profile declares.
func sampleScript(p *profile.Profile) *tu.Builder {
	return tu.NewBuilder(p).
		Instr(tu.IDStartState, tu.S32("CmnActStand")).
		Instr(tu.IDSprite, tu.S32("stand_00"), tu.I32(5)).
		Instr(tu.IDSetVar, tu.Tagged(2, tu.VarHealth), tu.Tagged(0, 42)).
		Instr(tu.IDFace, tu.I32(1)).
		Instr(tu.IDBlob, tu.Bytes(1, 2, 3, 4, 5, 6, 7, 8)).
		Instr(tu.IDLabel, tu.S16("loop")).
		Instr(tu.IDUpon, tu.I32(3)).
		Instr(tu.IDEndUpon).
		Instr(tu.IDEndState).
		Instr(tu.IDStartState, tu.S32("CmnActCrouch")).
		Instr(tu.IDEndState)
}

func TestDecode_SampleScript(t *testing.T) {
	p := tu.SampleProfile(t)
	buf := sampleScript(p).Bytes()

	s, err := Decode(buf, p)
	require.NoError(t, err)

	want := []script.Instruction{
		{ID: tu.IDStartState, Name: "startState", Offset: 0, Args: []script.Arg{script.String32("CmnActStand")}},
		{ID: tu.IDSprite, Name: "sprite", Offset: 36, Args: []script.Arg{script.String32("stand_00"), script.Number(5)}},
		{ID: tu.IDSetVar, Name: "setVar", Offset: 76, Args: []script.Arg{script.MemNamed("Health"), script.Val(42)}},
		{ID: tu.IDFace, Name: "face", Offset: 96, Args: []script.Arg{script.NamedValue("Right")}},
		{ID: tu.IDBlob, Name: "blob", Offset: 104, Args: []script.Arg{script.Raw{1, 2, 3, 4, 5, 6, 7, 8}}},
		{ID: tu.IDLabel, Name: "label", Offset: 116, Args: []script.Arg{script.String16("loop")}},
		{ID: tu.IDUpon, Name: "upon", Offset: 136, Args: []script.Arg{script.Number(3)}},
		{ID: tu.IDEndUpon, Name: "endUpon", Offset: 144, Args: []script.Arg{}},
		{ID: tu.IDEndState, Name: "endState", Offset: 148, Args: []script.Arg{}},
		{ID: tu.IDStartState, Name: "startState", Offset: 152, Args: []script.Arg{script.String32("CmnActCrouch")}},
		{ID: tu.IDEndState, Name: "endState", Offset: 188, Args: []script.Arg{}},
	}
	if diff := cmp.Diff(want, s.Instructions, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	bigEndian := tu.SampleProfile(t)
	bigEndian.BigEndian = true

	cases := map[string]*profile.Profile{
		"sized":      tu.SampleProfile(t),
		"unsized":    tu.UnsizedSampleProfile(t),
		"big endian": bigEndian,
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			buf := sampleScript(p).Bytes()

			s, err := Decode(buf, p)
			require.NoError(t, err)
			out, err := Encode(s, p)
			require.NoError(t, err)
			assert.Equal(t, buf, out)
		})
	}
}

func TestRoundTrip_BigEndianWords(t *testing.T) {
	p := tu.SampleProfile(t)
	p.BigEndian = true
	buf := tu.NewBuilder(p).Instr(tu.IDStartState, tu.S32("A")).Instr(tu.IDEndState).Bytes()

	assert.Equal(t, []byte{0, 0, 0, 1}, buf[:4], "table count is big endian")

	s, err := Decode(buf, p)
	require.NoError(t, err)
	require.Len(t, s.Instructions, 2)
	assert.Equal(t, tu.IDEndState, s.Instructions[1].ID)
}

func TestRoundTrip_RandomUnsized(t *testing.T) {
	p := tu.UnsizedSampleProfile(t)
	rng := rand.New(rand.NewPCG(1, 2))
	ids := []uint32{
		tu.IDStartState, tu.IDEndState, tu.IDSprite, tu.IDSetVar,
		tu.IDFace, tu.IDBlob, tu.IDLabel, tu.IDUpon, tu.IDEndUpon, 40, 41,
	}

	for iter := range 200 {
		b := tu.NewBuilder(p)
		for range 1 + rng.IntN(30) {
			id := ids[rng.IntN(len(ids))]
			n := rng.IntN(48)
			if id == tu.IDStartState {
				n += 32 // every state needs its name field
			}
			payload := make([]byte, n)
			for i := range payload {
				// Mostly small values so tags, enums and strings take their
				// named forms as well as the fallback ones.
				if rng.IntN(3) == 0 {
					payload[i] = byte(rng.UintN(256))
				} else {
					payload[i] = byte(rng.IntN(3))
				}
			}
			b.Instr(id, tu.Bytes(payload...))
		}
		buf := b.Bytes()

		s, err := Decode(buf, p)
		require.NoError(t, err, "iteration %d", iter)
		out, err := Encode(s, p)
		require.NoError(t, err, "iteration %d", iter)
		require.Equal(t, buf, out, "iteration %d", iter)
	}
}

func TestDecode_LosslessFallbacks(t *testing.T) {
	p := tu.UnsizedSampleProfile(t)
	junk := append([]byte("ab"), 0, 'c')
	junk = append(junk, make([]byte, 12)...)

	buf := tu.NewBuilder(p).
		Instr(tu.IDSetVar, tu.Tagged(7, 3), tu.Tagged(2, 99)).
		Instr(tu.IDFace, tu.I32(7)).
		Instr(tu.IDLabel, tu.Bytes(junk...)).
		Instr(tu.IDSprite, tu.S32("x"), tu.I32(1), tu.Bytes(9, 9)).
		Instr(tu.IDSetVar, tu.I32(7)).
		Instr(40, tu.Bytes(0xDE, 0xAD)).
		Instr(41).
		Bytes()

	s, err := Decode(buf, p)
	require.NoError(t, err)

	want := []script.Instruction{
		{ID: tu.IDSetVar, Name: "setVar", Args: []script.Arg{script.BadTag{Tag: 7, Value: 3}, script.MemID(99)}},
		{ID: tu.IDFace, Name: "face", Args: []script.Arg{script.Number(7)}},
		{ID: tu.IDLabel, Name: "label", Args: []script.Arg{script.Raw(junk)}},
		{ID: tu.IDSprite, Name: "sprite", Args: []script.Arg{script.String32("x"), script.Number(1), script.Raw{9, 9}}},
		{ID: tu.IDSetVar, Name: "setVar", Args: []script.Arg{script.Raw{7, 0, 0, 0}}},
		{ID: 40, Args: []script.Arg{script.Raw{0xDE, 0xAD}}},
		{ID: 41, Args: []script.Arg{}},
	}
	if diff := cmp.Diff(want, s.Instructions, ignoreOffsets, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded instructions mismatch (-want +got):\n%s", diff)
	}

	out, err := Encode(s, p)
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestDecode_NonCanonicalStateName(t *testing.T) {
	p := tu.SampleProfile(t)
	name := make([]byte, 32)
	copy(name, "st")
	name[31] = 0x01

	buf := tu.NewBuilder(p).Instr(tu.IDStartState, tu.Bytes(name...)).Bytes()
	s, err := Decode(buf, p)
	require.NoError(t, err)
	require.Len(t, s.Instructions, 1)
	assert.Equal(t, script.Raw(name), s.Instructions[0].Args[0])

	out, err := Encode(s, p)
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestDecode_Errors(t *testing.T) {
	sized := tu.SampleProfile(t)
	unsized := tu.UnsizedSampleProfile(t)
	twoStates := func(p *profile.Profile) []byte {
		return tu.NewBuilder(p).
			Instr(tu.IDStartState, tu.S32("A")).
			Instr(tu.IDEndState).
			Instr(tu.IDStartState, tu.S32("B")).
			Instr(tu.IDEndState).
			Bytes()
	}
	patch := func(buf []byte, at int, v uint32) []byte {
		out := bytes.Clone(buf)
		binary.LittleEndian.PutUint32(out[at:], v)
		return out
	}
	// Sized header for two states: 4 + 2*0x24 bytes; the entry offsets sit
	// after each 32-byte name.
	const firstOffset, secondOffset = 4 + 32, 4 + EntrySize + 32

	tests := []struct {
		name    string
		p       *profile.Profile
		buf     []byte
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty buffer",
			p:       sized,
			buf:     nil,
			wantErr: script.ErrUnexpectedEnd,
		},
		{
			name:    "truncated instruction",
			p:       sized,
			buf:     twoStates(sized)[:4+2*EntrySize+36+4+20],
			wantErr: script.ErrUnexpectedEnd,
		},
		{
			name:    "unknown id in sized layout",
			p:       sized,
			buf:     tu.NewBuilder(sized).Instr(77, tu.I32(0)).Bytes(),
			wantErr: script.ErrUnknownTagUnsizable,
			wantMsg: "instruction id 77",
		},
		{
			name:    "unsized size below header",
			p:       unsized,
			buf:     tu.NewBuilder(unsized).InstrWithSize(tu.IDBlob, 4).Bytes(),
			wantErr: script.ErrOffsetInconsistency,
		},
		{
			name:    "unsized size past end",
			p:       unsized,
			buf:     tu.NewBuilder(unsized).InstrWithSize(tu.IDBlob, 100, tu.Bytes(1, 2)).Bytes(),
			wantErr: script.ErrUnexpectedEnd,
		},
		{
			name:    "header larger than buffer",
			p:       sized,
			buf:     patch(nil4(), 0, 1000),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: "is the profile right?",
		},
		{
			name:    "offset past end",
			p:       sized,
			buf:     patch(twoStates(sized), secondOffset, 5000),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: "past the end",
		},
		{
			name:    "offset inside an instruction",
			p:       sized,
			buf:     patch(twoStates(sized), firstOffset, 2),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: "does not start an instruction",
		},
		{
			name:    "offset at wrong instruction",
			p:       sized,
			buf:     patch(twoStates(sized), secondOffset, 36),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: "want instruction id 0",
		},
		{
			name:    "entries out of order",
			p:       sized,
			buf:     patch(twoStates(sized), secondOffset, 0),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: "precedes",
		},
		{
			name: "entry name differs",
			p:    sized,
			buf: func() []byte {
				buf := twoStates(sized)
				buf[4] = 'Z'
				return buf
			}(),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: `name "Z"`,
		},
		{
			name: "state missing from header",
			p:    sized,
			buf: func() []byte {
				w := cursor.NewWriter(nil)
				w.PutU32(1)
				w.PutString("A", 32)
				w.PutU32(0)
				body := tu.NewBuilder(sized).
					Instr(tu.IDStartState, tu.S32("A")).
					Instr(tu.IDStartState, tu.S32("B")).
					Body()
				w.PutBytes(body)
				return w.Bytes()
			}(),
			wantErr: script.ErrOffsetInconsistency,
			wantMsg: "body has 2 state instructions, header lists 1",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode(tc.buf, tc.p)
			require.Error(t, err)
			assert.Nil(t, s, "no partial output on failure")
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

// nil4 is a lone zero table count.
func nil4() []byte { return make([]byte, 4) }

func TestDecode_ErrorOffset(t *testing.T) {
	p := tu.SampleProfile(t)
	buf := tu.NewBuilder(p).Instr(tu.IDEndState).Instr(99).Bytes()

	_, err := Decode(buf, p)
	var de *script.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 4+4, de.Offset, "absolute offset of the failing instruction")

	var ue *script.UnsizableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, uint32(99), ue.ID)
}

func TestDecode_NilProfile(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 0}, nil)
	require.Error(t, err)
}

func TestDecodeContext_LogsFallbacks(t *testing.T) {
	p := tu.UnsizedSampleProfile(t)
	buf := tu.NewBuilder(p).Instr(tu.IDSetVar, tu.I32(7)).Bytes()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	_, err := DecodeContext(ctx, buf, p)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "instruction=setVar")
	assert.Contains(t, logs.String(), "Script decoded.")
}

func TestEncode_StringWidth(t *testing.T) {
	p := tu.UnsizedSampleProfile(t)

	t.Run("exact width is unpadded", func(t *testing.T) {
		name := strings.Repeat("n", 32)
		s := &script.Script{Instructions: []script.Instruction{
			{ID: tu.IDStartState, Args: []script.Arg{script.String32(name)}},
		}}
		out, err := Encode(s, p)
		require.NoError(t, err)
		body := out[4+EntrySize:]
		assert.Equal(t, []byte(name), body[8:40])
		assert.Equal(t, []byte(name), out[4:36], "header entry mirrors the name")
	})

	t.Run("short literal is zero padded", func(t *testing.T) {
		s := &script.Script{Instructions: []script.Instruction{
			{ID: tu.IDLabel, Args: []script.Arg{script.String16("0123456789")}},
		}}
		out, err := Encode(s, p)
		require.NoError(t, err)
		want := append([]byte("0123456789"), make([]byte, 6)...)
		assert.Equal(t, want, out[4+8:])
	})

	t.Run("overflow", func(t *testing.T) {
		s := &script.Script{Instructions: []script.Instruction{
			{ID: tu.IDLabel, Args: []script.Arg{script.String16("01234567890123456")}},
		}}
		_, err := Encode(s, p)
		require.ErrorIs(t, err, script.ErrStringOverflow)

		var se *script.StringOverflowError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 16, se.Width)
	})
}

func TestEncode_RecomputesOffsets(t *testing.T) {
	p := tu.UnsizedSampleProfile(t)
	buf := tu.NewBuilder(p).
		Instr(tu.IDStartState, tu.S32("A")).
		Instr(tu.IDSprite, tu.S32("a_00"), tu.I32(1)).
		Instr(tu.IDEndState).
		Instr(tu.IDStartState, tu.S32("B")).
		Instr(tu.IDEndState).
		Bytes()
	const headerSize = 4 + 2*EntrySize
	const secondOffset = 4 + EntrySize + 32

	s, err := Decode(buf, p)
	require.NoError(t, err)
	before := binary.LittleEndian.Uint32(buf[secondOffset:])
	require.Equal(t, uint32(s.Instructions[3].Offset), before)

	sprite := &s.Instructions[1]
	sprite.Args = append(sprite.Args, script.Number(0))
	s.Instructions[3].Offset = 12345 // stale offsets are ignored

	out, err := Encode(s, p)
	require.NoError(t, err)
	assert.Equal(t, before+4, binary.LittleEndian.Uint32(out[secondOffset:]))

	// The only body changes are the sprite's size word and its new argument.
	spriteAt := headerSize + 8 + 32
	assert.Equal(t, buf[headerSize:spriteAt+4], out[headerSize:spriteAt+4])
	assert.Equal(t, uint32(8+36+4), binary.LittleEndian.Uint32(out[spriteAt+4:]))
	rest := spriteAt + 8 + 36
	assert.Equal(t, buf[rest:], out[rest+4:])

	again, err := Decode(out, p)
	require.NoError(t, err)
	assert.Equal(t, int(before)+4, again.Instructions[3].Offset)
}

func TestEncode_Errors(t *testing.T) {
	sized := tu.SampleProfile(t)
	unsized := tu.UnsizedSampleProfile(t)

	tests := []struct {
		name    string
		p       *profile.Profile
		in      script.Instruction
		wantErr error
		wantMsg string
	}{
		{
			name:    "size mismatch",
			p:       sized,
			in:      script.Instruction{ID: tu.IDFace, Name: "face", Args: []script.Arg{script.Number(0), script.Number(1)}},
			wantErr: script.ErrSizeMismatch,
			wantMsg: "face is 12 bytes, profile declares 8",
		},
		{
			name:    "unknown id in sized layout",
			p:       sized,
			in:      script.Instruction{ID: 77},
			wantErr: script.ErrUnknownTagUnsizable,
		},
		{
			name:    "unknown variable",
			p:       unsized,
			in:      script.Instruction{ID: tu.IDSetVar, Args: []script.Arg{script.MemNamed("Nope"), script.Val(0)}},
			wantErr: script.ErrUnresolvedName,
			wantMsg: `variable "Nope"`,
		},
		{
			name:    "named value outside enum slot",
			p:       unsized,
			in:      script.Instruction{ID: tu.IDUpon, Args: []script.Arg{script.NamedValue("Left")}},
			wantErr: script.ErrUnresolvedName,
		},
		{
			name:    "unknown enum member",
			p:       unsized,
			in:      script.Instruction{ID: tu.IDFace, Args: []script.Arg{script.NamedValue("Up")}},
			wantErr: script.ErrUnresolvedName,
			wantMsg: "member of enum Direction",
		},
		{
			name:    "state without name",
			p:       unsized,
			in:      script.Instruction{ID: tu.IDStartState, Args: []script.Arg{script.Number(1)}},
			wantErr: script.ErrOffsetInconsistency,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &script.Script{Instructions: []script.Instruction{
				{ID: tu.IDEndState},
				tc.in,
			}}
			out, err := Encode(s, tc.p)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}

			var ie *script.InstructionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, 1, ie.Index)
		})
	}
}

func TestEncode_EmptyScript(t *testing.T) {
	p := tu.SampleProfile(t)
	out, err := Encode(&script.Script{}, p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, out)

	s, err := Decode(out, p)
	require.NoError(t, err)
	assert.Empty(t, s.Instructions)
}

// twoTableProfile has states in table 0 and subroutines in table 1.
func twoTableProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := profile.New("two tables")
	p.Layout = profile.LayoutUnsized
	p.JumpTableIDs = []uint32{0, 16}
	s32, err := profile.ParseArgTypes([]string{"s32"})
	require.NoError(t, err)
	for _, def := range []profile.InstructionDef{
		{ID: 0, Name: "startState", Block: profile.BlockBegin, Args: s32},
		{ID: 1, Name: "endState", Block: profile.BlockEnd},
		{ID: 16, Name: "startSubroutine", Block: profile.BlockBegin, Args: s32},
		{ID: 17, Name: "endSubroutine", Block: profile.BlockEnd},
	} {
		require.NoError(t, p.AddInstruction(def))
	}
	require.NoError(t, profile.Validate(p))
	return p
}

func TestCodec_MultipleJumpTables(t *testing.T) {
	p := twoTableProfile(t)
	buf := tu.NewBuilder(p).
		Instr(0, tu.S32("A")).Instr(1).
		Instr(16, tu.S32("X")).Instr(17).
		Instr(0, tu.S32("B")).Instr(1).
		Instr(16, tu.S32("Y")).Instr(17).
		Bytes()

	// One count per table, then table 0 entries, then table 1 entries.
	le := binary.LittleEndian
	assert.Equal(t, uint32(2), le.Uint32(buf[0:]))
	assert.Equal(t, uint32(2), le.Uint32(buf[4:]))
	entry := func(i int) (string, uint32) {
		at := 8 + i*EntrySize
		return string(bytes.TrimRight(buf[at:at+32], "\x00")), le.Uint32(buf[at+32:])
	}
	for i, want := range []struct {
		name   string
		offset uint32
	}{{"A", 0}, {"B", 96}, {"X", 48}, {"Y", 144}} {
		name, offset := entry(i)
		assert.Equal(t, want.name, name, "entry %d", i)
		assert.Equal(t, want.offset, offset, "entry %d", i)
	}

	s, err := Decode(buf, p)
	require.NoError(t, err)
	require.Len(t, s.Instructions, 8)
	assert.Equal(t, 48, s.Instructions[2].Offset)

	out, err := Encode(s, p)
	require.NoError(t, err)
	assert.Equal(t, buf, out)

	// Adding an argument to the first state shifts offsets in both tables.
	s.Instructions[0].Args = append(s.Instructions[0].Args, script.Number(9))
	grown, err := Encode(s, p)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), le.Uint32(grown[8+32:]))
	assert.Equal(t, uint32(100), le.Uint32(grown[8+EntrySize+32:]))
	assert.Equal(t, uint32(52), le.Uint32(grown[8+2*EntrySize+32:]))
	assert.Equal(t, uint32(148), le.Uint32(grown[8+3*EntrySize+32:]))
}

func TestDecode_MultipleJumpTableErrors(t *testing.T) {
	p := twoTableProfile(t)
	buf := tu.NewBuilder(p).
		Instr(0, tu.S32("A")).Instr(1).
		Instr(16, tu.S32("X")).Instr(17).
		Instr(16, tu.S32("Y")).Instr(17).
		Bytes()
	// Entries: table 0 holds A, table 1 holds X then Y.
	entryAt := func(i int) int { return 8 + i*EntrySize }

	tests := []struct {
		name      string
		mutate    func(b []byte)
		wantEntry int
		wantMsg   string
	}{
		{
			name:      "entry points into the other table",
			mutate:    func(b []byte) { binary.LittleEndian.PutUint32(b[entryAt(1)+32:], 0) },
			wantEntry: 0,
			wantMsg:   "want instruction id 16",
		},
		{
			name: "entries out of order",
			mutate: func(b []byte) {
				first := bytes.Clone(b[entryAt(1):entryAt(2)])
				copy(b[entryAt(1):], b[entryAt(2):entryAt(3)])
				copy(b[entryAt(2):], first)
			},
			wantEntry: 1,
			wantMsg:   "precedes the previous entry",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := bytes.Clone(buf)
			tc.mutate(b)
			_, err := Decode(b, p)
			require.ErrorIs(t, err, script.ErrOffsetInconsistency)
			var offErr *script.OffsetError
			require.True(t, errors.As(err, &offErr))
			assert.Equal(t, 1, offErr.Table)
			assert.Equal(t, tc.wantEntry, offErr.Entry)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}

	t.Run("state missing from its table", func(t *testing.T) {
		b := bytes.Clone(buf)
		// Drop the last table 1 entry: its count becomes 1 and the entry's
		// bytes are cut out of the header.
		binary.LittleEndian.PutUint32(b[4:], 1)
		b = append(b[:entryAt(2)], b[entryAt(3):]...)
		// The body now starts 0x24 bytes earlier, so offsets still line up.
		_, err := Decode(b, p)
		var offErr *script.OffsetError
		require.True(t, errors.As(err, &offErr))
		assert.Equal(t, 1, offErr.Table)
		assert.Contains(t, err.Error(), "body has 2 state instructions, header lists 1")
	})
}
