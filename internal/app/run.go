package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/fsutil"
	"golang.org/x/sync/errgroup"
)

// Run executes the configured conversion. A directory input converts every
// matching script below it, WorkerCount at a time, and reports all failures.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", string(a.config.Command))

	jobs, err := a.jobs()
	if err != nil {
		return err
	}
	if a.config.Command != CommandVerify {
		for _, j := range jobs {
			if err := fsutil.CheckOutput(j.out, a.config.Overwrite); err != nil {
				return err
			}
		}
	}

	switch len(jobs) {
	case 0:
		a.logger.Warn("No scripts found, nothing to convert.", "input", a.config.InputPath)
		return nil
	case 1:
		return a.convert(ctx, jobs[0])
	}
	return a.runBatch(ctx, jobs)
}

// jobs expands the configured input into input/output pairs.
func (a *App) jobs() ([]job, error) {
	in, out := a.config.InputPath, a.config.OutputPath
	inExt, outExt := a.config.Command.extensions()

	info, err := os.Stat(in)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", in, err)
	}
	outIsDir := false
	if out != "" {
		if oi, err := os.Stat(out); err == nil && oi.IsDir() {
			outIsDir = true
		}
	}

	if !info.IsDir() {
		j := job{in: in, out: out}
		if outIsDir {
			j.out = filepath.Join(out, fsutil.ReplaceExt(filepath.Base(in), outExt))
		}
		return []job{j}, nil
	}

	if out != "" && !outIsDir {
		if _, err := os.Stat(out); err == nil {
			return nil, fmt.Errorf("output %s must be a directory when the input is one", out)
		}
	}
	files, err := fsutil.FindFiles(in, inExt)
	if err != nil {
		return nil, fmt.Errorf("searching %s for scripts: %w", in, err)
	}
	a.logger.Debug("Scripts found.", "input", in, "count", len(files))

	jobs := make([]job, 0, len(files))
	for _, rel := range files {
		j := job{in: filepath.Join(in, rel)}
		if out != "" {
			j.out = filepath.Join(out, fsutil.ReplaceExt(rel, outExt))
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (a *App) runBatch(ctx context.Context, jobs []job) error {
	a.logger.Info("Starting batch conversion.", "scripts", len(jobs), "workers", a.config.WorkerCount)

	var (
		mu     sync.Mutex
		failed []error
	)
	g := new(errgroup.Group)
	g.SetLimit(a.config.WorkerCount)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.convert(ctx, j); err != nil {
				a.logger.Error("Conversion failed.", "input", j.in, "error", err)
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Info("Batch conversion finished.", "scripts", len(jobs), "failed", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d scripts failed: %w", len(failed), len(jobs), errors.Join(failed...))
	}
	return nil
}
