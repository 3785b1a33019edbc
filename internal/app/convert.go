package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/bbscript/internal/codec"
	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/digest"
	"github.com/vk/bbscript/internal/fsutil"
	"github.com/vk/bbscript/internal/text"
)

// MismatchError reports a script that does not survive a text round trip.
type MismatchError struct {
	Path    string
	Input   digest.Digest
	Rebuilt digest.Digest
	// Offset is the first byte at which the rebuilt script differs.
	Offset int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s does not survive a text round trip: first difference at byte %d (input %s, rebuilt %s)",
		e.Path, e.Offset, e.Input.Short(), e.Rebuilt.Short())
}

// job is one input file and the output it produces.
type job struct {
	in  string
	out string
}

func (a *App) convert(ctx context.Context, j job) error {
	ctx = ctxlog.With(ctx, "input", j.in)
	switch a.config.Command {
	case CommandParse:
		return a.parseFile(ctx, j)
	case CommandRebuild:
		return a.rebuildFile(ctx, j)
	case CommandVerify:
		return a.verifyFile(ctx, j)
	}
	return fmt.Errorf("unknown command %q", a.config.Command)
}

func (a *App) parseFile(ctx context.Context, j job) error {
	buf, err := os.ReadFile(j.in)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	s, err := codec.DecodeContext(ctx, buf, a.profile)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", j.in, err)
	}
	out, err := text.Format(s, a.profile, a.textOptions())
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", j.in, err)
	}
	if err := a.writeOutput(ctx, j.out, out); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Script parsed.", "output", j.out, "instructions", len(s.Instructions))
	return nil
}

func (a *App) rebuildFile(ctx context.Context, j job) error {
	src, err := os.ReadFile(j.in)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	s, err := text.Parse(src, a.profile)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", j.in, err)
	}
	out, err := codec.Encode(s, a.profile)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", j.in, err)
	}
	if err := a.writeOutput(ctx, j.out, out); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Script rebuilt.",
		"output", j.out,
		"instructions", len(s.Instructions),
		"digest", digest.Sum(out).Short(),
	)
	return nil
}

// verifyFile decodes a binary script, writes it as text, parses the text
// back and encodes it again. The result must equal the input byte for byte.
func (a *App) verifyFile(ctx context.Context, j job) error {
	buf, err := os.ReadFile(j.in)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	s, err := codec.DecodeContext(ctx, buf, a.profile)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", j.in, err)
	}
	src, err := text.Format(s, a.profile, a.textOptions())
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", j.in, err)
	}
	reparsed, err := text.Parse(src, a.profile)
	if err != nil {
		return fmt.Errorf("failed to re-parse text of %s: %w", j.in, err)
	}
	rebuilt, err := codec.Encode(reparsed, a.profile)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s: %w", j.in, err)
	}

	want, got := digest.Sum(buf), digest.Sum(rebuilt)
	if want != got {
		return &MismatchError{Path: j.in, Input: want, Rebuilt: got, Offset: firstDiff(buf, rebuilt)}
	}
	ctxlog.FromContext(ctx).Info("Script verified.", "instructions", len(s.Instructions), "digest", want.Short())
	return nil
}

// writeOutput writes data to path. An existing file whose content already
// matches is left untouched.
func (a *App) writeOutput(ctx context.Context, path string, data []byte) error {
	if a.config.Overwrite {
		if old, err := digest.File(path); err == nil && old == digest.Sum(data) {
			ctxlog.FromContext(ctx).Debug("Output unchanged, not rewriting.", "output", path)
			return nil
		}
	}
	return fsutil.WriteFile(path, data)
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
