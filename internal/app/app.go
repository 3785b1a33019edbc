package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/bbscript/internal/ctxlog"
	"github.com/vk/bbscript/internal/profile"
	"github.com/vk/bbscript/internal/text"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger  *slog.Logger
	config  *Config
	profile *profile.Profile
}

// NewApp is the constructor for the main application. It configures an
// isolated logger writing to outW and loads the profile of cfg.Game from
// cfg.DBFolder. Loaders default to every built-in profile format.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loaders ...profile.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = coreLoaders()
	}
	path, loader, err := profile.Resolve(cfg.DBFolder, cfg.Game, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	p, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	logger.Debug("Profile loaded.",
		"path", path,
		"game", p.Name,
		"layout", p.Layout.String(),
		"big_endian", p.BigEndian,
		"variables", p.Variables.Len(),
	)

	return &App{
		logger:  logger,
		config:  cfg,
		profile: p,
	}, nil
}

// Profile returns the loaded game profile. This is primarily for testing.
func (a *App) Profile() *profile.Profile {
	return a.profile
}

func (a *App) textOptions() text.Options {
	return text.Options{IndentLimit: a.config.IndentLimit}
}
