// Package app implements the application layer for qeb.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder runs a single bundle build.
type Builder interface {
	Build(ctx context.Context, req domain.BuildRequest) (*domain.Artifact, error)
}

// BuildOptions configures a build.
type BuildOptions struct {
	// Root is the site root holding the schema snapshot and the entry module.
	// Defaults to the working directory.
	Root string
	// Verbose reports relocated assets and warnings.
	Verbose bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	builder      Builder
	logger       ports.Logger
	toggles      func() domain.Toggles
	getwd        func() (string, error)
}

// New creates a new App instance. toggles is consulted once per build.
func New(loader ports.ConfigLoader, builder Builder, logger ports.Logger, toggles func() domain.Toggles) *App {
	return &App{
		configLoader: loader,
		builder:      builder,
		logger:       logger,
		toggles:      toggles,
		getwd:        os.Getwd,
	}
}

// WithWorkingDirectory pins the directory outputs and caches are written below.
func (a *App) WithWorkingDirectory(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// Build assembles the query engine bundle.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*domain.Artifact, error) {
	cwd, root, err := a.directories(opts.Root)
	if err != nil {
		return nil, err
	}

	settings, err := a.configLoader.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	req := domain.BuildRequest{
		RootDirectory:    root,
		WorkingDirectory: cwd,
		Verbose:          opts.Verbose,
		Toggles:          a.toggles(),
		Settings:         settings,
	}

	return a.builder.Build(ctx, req)
}

// Clean removes the bundle output and every engine cache.
func (a *App) Clean(_ context.Context) error {
	cwd, err := a.getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	dirs := []string{
		domain.OutputDir(cwd),
		domain.EngineCacheDir(cwd, domain.EngineWebpack),
		domain.EngineCacheDir(cwd, domain.EngineESBuild),
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", dir)
		}
		a.logger.Info("removed " + dir)
	}
	return nil
}

func (a *App) directories(root string) (cwd, absRoot string, err error) {
	cwd, err = a.getwd()
	if err != nil {
		return "", "", zerr.Wrap(err, "failed to get working directory")
	}
	if root == "" {
		return cwd, cwd, nil
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}
	return cwd, filepath.Clean(root), nil
}
