// Package webpack drives webpack through a Node runner subprocess.
package webpack

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultNode is used when the configuration names no node binary.
const DefaultNode = "node"

// runnerDirName is created inside the engine cache directory.
const runnerDirName = "runner"

// Engine bundles with webpack.
type Engine struct {
	executor ports.Executor
	logger   ports.Logger
}

// NewEngine creates a new webpack Engine.
func NewEngine(executor ports.Executor, logger ports.Logger) *Engine {
	return &Engine{
		executor: executor,
		logger:   logger,
	}
}

// Kind implements ports.Engine.
func (e *Engine) Kind() domain.EngineKind {
	return domain.EngineWebpack
}

// Open writes the runner scripts and the compiler configuration.
func (e *Engine) Open(_ context.Context, cfg *domain.EngineConfig) (ports.Session, error) {
	dir := filepath.Join(cfg.Cache.Dir, runnerDirName)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create runner directory"), "path", dir)
	}

	data, err := json.MarshalIndent(translate(cfg, dir), "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode webpack configuration")
	}

	files := []struct {
		name string
		data []byte
	}{
		{RunnerFile, runnerSource},
		{StorageLoaderFile, storageLoaderSource},
		{ConfigFile, data},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, domain.FilePerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to write runner file"), "path", path)
		}
	}

	reportPath := filepath.Join(dir, ReportFile)
	if err := os.Remove(reportPath); err != nil && !os.IsNotExist(err) {
		return nil, zerr.With(zerr.Wrap(err, "failed to remove stale report"), "path", reportPath)
	}

	node := cfg.Node
	if node == "" {
		node = DefaultNode
	}

	return &session{
		engine: e,
		cfg:    cfg,
		command: &domain.Command{
			Name: node,
			Args: []string{
				filepath.Join(dir, RunnerFile),
				filepath.Join(dir, ConfigFile),
				reportPath,
			},
			Dir: cfg.Root,
		},
		reportPath: reportPath,
	}, nil
}

type session struct {
	engine     *Engine
	cfg        *domain.EngineConfig
	command    *domain.Command
	reportPath string

	mu       sync.Mutex
	closed   bool
	closeErr error
}

// Run executes the runner and reads its report.
func (s *session) Run(ctx context.Context) (*domain.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}

	execErr := s.engine.executor.Execute(ctx, s.command)

	data, err := os.ReadFile(s.reportPath)
	if err != nil {
		if execErr != nil {
			return nil, domain.NewBuildFailure(nil, execErr, nil)
		}
		return nil, domain.NewBuildFailure(nil, errors.Join(
			domain.ErrRunnerProtocol,
			zerr.With(zerr.Wrap(err, "runner left no report"), "path", s.reportPath),
		), nil)
	}

	rep, err := parseReport(data)
	if err != nil {
		return nil, domain.NewBuildFailure(nil, err, nil)
	}

	// The compiler is already closed; its error surfaces from Close.
	s.closeErr = rep.closeErr()

	if diags, runErr := toDiagnostics(rep.Errors), rep.runErr(); len(diags) > 0 || runErr != nil {
		return nil, domain.NewBuildFailure(diags, runErr, nil)
	}
	if execErr != nil && s.closeErr == nil {
		return nil, domain.NewBuildFailure(nil, execErr, nil)
	}

	artifact := &domain.Artifact{
		Engine:   domain.EngineWebpack,
		Path:     s.cfg.OutputPath(),
		Assets:   assets(rep.Assets, s.cfg.OutputFile),
		Warnings: toDiagnostics(rep.Warnings),
	}
	if s.cfg.Verbose {
		for _, asset := range artifact.Assets {
			s.engine.logger.Info("emitted " + asset)
		}
		for _, warning := range artifact.Warnings {
			s.engine.logger.Warn(warning.String())
		}
	}
	return artifact, nil
}

// Close reports the compiler close error captured by Run.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.closed = true
	return s.closeErr
}

func assets(emitted []string, bundle string) []string {
	out := make([]string, 0, len(emitted))
	for _, name := range emitted {
		if name != bundle {
			out = append(out, filepath.ToSlash(name))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
