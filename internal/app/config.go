package app

import (
	"errors"
	"fmt"
	"strings"
)

// Command selects the conversion an App performs.
type Command string

const (
	// CommandParse turns binary scripts into text.
	CommandParse Command = "parse"
	// CommandRebuild turns text scripts back into binary.
	CommandRebuild Command = "rebuild"
	// CommandVerify checks that binary scripts survive a text round trip.
	CommandVerify Command = "verify"
)

// DefaultDBFolder is where game profiles are looked up when no folder is
// given.
const DefaultDBFolder = "static_db"

// DefaultWorkerCount is the number of scripts converted at once in directory
// mode when no count is given.
const DefaultWorkerCount = 4

// extensions returns the input and output file extensions used in batch
// mode.
func (c Command) extensions() (in, out string) {
	switch c {
	case CommandRebuild:
		return ".txt", ".bin"
	default:
		return ".bin", ".txt"
	}
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    Command
	Game       string // profile name inside DBFolder
	InputPath  string // file or directory
	OutputPath string // file or directory; unused by verify
	DBFolder   string
	Overwrite  bool

	IndentLimit int
	WorkerCount int
	LogFormat   string
	LogLevel    string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	switch cfg.Command {
	case CommandParse, CommandRebuild:
		if cfg.OutputPath == "" {
			errs = append(errs, fmt.Errorf("%s needs an output path", cfg.Command))
		}
	case CommandVerify:
	default:
		errs = append(errs, fmt.Errorf("unknown command %q", cfg.Command))
	}
	if cfg.Game == "" {
		errs = append(errs, errors.New("Game is a required configuration field and cannot be empty"))
	}
	if cfg.InputPath == "" {
		errs = append(errs, errors.New("InputPath is a required configuration field and cannot be empty"))
	}
	if cfg.IndentLimit < 0 {
		errs = append(errs, fmt.Errorf("indent limit must not be negative, got %d", cfg.IndentLimit))
	}
	if cfg.WorkerCount < 0 {
		errs = append(errs, fmt.Errorf("worker count must not be negative, got %d", cfg.WorkerCount))
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if cfg.DBFolder == "" {
		cfg.DBFolder = DefaultDBFolder
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	return &cfg, nil
}
