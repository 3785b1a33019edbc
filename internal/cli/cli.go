package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/vk/bbscript/internal/app"
	"github.com/vk/bbscript/internal/text"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

type subcommand struct {
	name      string
	summary   string
	operands  string
	wantArgs  int
	overwrite bool
	indent    bool
}

var subcommands = []subcommand{
	{
		name:      string(app.CommandParse),
		summary:   "Parse binary scripts into editable text.",
		operands:  "GAME INPUT OUTPUT",
		wantArgs:  3,
		overwrite: true,
		indent:    true,
	},
	{
		name:      string(app.CommandRebuild),
		summary:   "Rebuild text scripts into binary scripts the game can load.",
		operands:  "GAME INPUT OUTPUT",
		wantArgs:  3,
		overwrite: true,
	},
	{
		name:     string(app.CommandVerify),
		summary:  "Check that binary scripts survive a parse and rebuild unchanged.",
		operands: "GAME INPUT",
		wantArgs: 2,
		indent:   true,
	},
}

func lookup(name string) (subcommand, bool) {
	for _, c := range subcommands {
		if c.name == name {
			return c, true
		}
	}
	return subcommand{}, false
}

func printUsage(output io.Writer) {
	fmt.Fprint(output, `
BBScript - Converts BBScript files between their binary and text forms.

Usage:
  bbscript <command> [options] GAME INPUT [OUTPUT]

Commands:
`)
	for _, c := range subcommands {
		fmt.Fprintf(output, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprint(output, `
Arguments:
  GAME     Name of the profile inside the DB folder, such as bbcf for bbcf.hcl.
  INPUT    Script file, or a directory converted recursively.
  OUTPUT   Output file, or a directory when INPUT is one.

Run 'bbscript <command> --help' for the options of a command.
`)
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if len(args) == 0 {
		printUsage(output)
		return nil, true, nil
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(output)
		return nil, true, nil
	}
	cmd, ok := lookup(args[0])
	if !ok {
		return nil, false, usageError("unknown command %q, want parse, rebuild or verify", args[0])
	}

	flagSet := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprintf(output, "\n%s\n\nUsage:\n  bbscript %s [options] %s\n\nOptions:\n", cmd.summary, cmd.name, cmd.operands)
		flagSet.PrintDefaults()
	}

	dbFolder := flagSet.StringP("db-folder", "d", app.DefaultDBFolder, "Folder containing the game profiles.")
	workers := flagSet.IntP("workers", "w", app.DefaultWorkerCount, "Number of scripts converted concurrently in directory mode.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	var overwrite bool
	if cmd.overwrite {
		flagSet.BoolVarP(&overwrite, "overwrite", "o", false, "Overwrite OUTPUT if it already exists.")
	}
	indentLimit := text.DefaultIndentLimit
	if cmd.indent {
		flagSet.IntVar(&indentLimit, "indent-limit", text.DefaultIndentLimit, "Deepest block level that is still indented. 0 disables indentation.")
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.", "command", cmd.name)

	if flagSet.NArg() != cmd.wantArgs {
		return nil, false, usageError("%s takes %s, got %d arguments", cmd.name, cmd.operands, flagSet.NArg())
	}
	positional := flagSet.Args()

	cfg := app.Config{
		Command:     app.Command(cmd.name),
		Game:        positional[0],
		InputPath:   positional[1],
		DBFolder:    *dbFolder,
		Overwrite:   overwrite,
		IndentLimit: indentLimit,
		WorkerCount: *workers,
		LogFormat:   *logFormat,
		LogLevel:    *logLevel,
	}
	if cmd.wantArgs > 2 {
		cfg.OutputPath = positional[2]
	}
	if cfg.WorkerCount < 1 {
		return nil, false, usageError("--workers must be at least 1, got %d", cfg.WorkerCount)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
