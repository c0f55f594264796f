package esbuild

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine bundles in-process with esbuild.
type Engine struct {
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	verifier ports.Verifier
	logger   ports.Logger
}

// NewEngine creates a new esbuild Engine.
func NewEngine(store ports.BuildInfoStore, hasher ports.Hasher, verifier ports.Verifier, logger ports.Logger) *Engine {
	return &Engine{
		store:    store,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger,
	}
}

// Kind implements ports.Engine.
func (e *Engine) Kind() domain.EngineKind {
	return domain.EngineESBuild
}

// Open translates cfg into esbuild options and creates a build context.
func (e *Engine) Open(ctx context.Context, cfg *domain.EngineConfig) (ports.Session, error) {
	reloc := newRelocator(cfg)
	plugins := []api.Plugin{
		externalsPlugin(cfg.Externals),
		aliasPlugin(cfg.Aliases),
		reloc.plugin(),
	}
	if vertex, ok := ports.VertexFromContext(ctx); ok && cfg.ProgressLogging {
		plugins = append(plugins, progressPlugin(vertex))
	}

	buildCtx, ctxErr := api.Context(buildOptions(cfg, plugins))
	if ctxErr != nil {
		return nil, domain.NewBuildFailure(toDiagnostics(ctxErr.Errors), ErrContextFailed, nil)
	}

	return &session{
		engine: e,
		cfg:    cfg,
		build:  buildCtx,
		reloc:  reloc,
	}, nil
}

// ErrContextFailed is reported when esbuild rejects the build options.
var ErrContextFailed = zerr.New("esbuild context creation failed")

func buildOptions(cfg *domain.EngineConfig, plugins []api.Plugin) api.BuildOptions {
	assetBase := domain.AssetBase
	if cfg.Relocation != nil && cfg.Relocation.AssetBase != "" {
		assetBase = cfg.Relocation.AssetBase
	}

	opts := api.BuildOptions{
		EntryPoints:       []string{cfg.Entry},
		Outfile:           cfg.OutputPath(),
		AbsWorkingDir:     cfg.Root,
		Bundle:            true,
		Write:             true,
		Metafile:          true,
		LogLevel:          api.LogLevelSilent,
		Platform:          api.PlatformNode,
		Format:            api.FormatCommonJS,
		Define:            cfg.Defines,
		ResolveExtensions: cfg.Extensions,
		AssetNames:        assetBase + "/[name]-[hash]",
		Loader:            map[string]api.Loader{},
		Plugins:           plugins,
	}
	if version := nodeVersion(cfg.Target.NodeVersion); version != "" {
		opts.Engines = []api.Engine{{Name: api.EngineNode, Version: version}}
	}

	if cfg.SourceMaps {
		opts.Sourcemap = api.SourceMapLinked
	}
	if cfg.Minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	if cfg.Relocation != nil {
		for _, rule := range cfg.Relocation.Rules {
			if rule.Action != domain.CopyResource {
				continue
			}
			for _, ext := range patternExtensions(rule.Pattern) {
				opts.Loader[ext] = api.LoaderFile
			}
		}
	}
	return opts
}

// nodeVersion turns a semver range such as ">= 14.15.0" into an esbuild engine version.
func nodeVersion(constraint string) string {
	return strings.TrimSpace(strings.TrimLeft(constraint, "<>=~^ "))
}

// patternExtensions extracts the extensions a resource pattern such as
// "**.txt" or "**.{txt,md}" selects.
func patternExtensions(pattern string) []string {
	i := strings.LastIndex(pattern, ".")
	if i < 0 {
		return nil
	}
	ext := strings.Trim(pattern[i+1:], "{}")
	var exts []string
	for e := range strings.SplitSeq(ext, ",") {
		if e != "" && !strings.ContainsAny(e, "*?[/") {
			exts = append(exts, "."+e)
		}
	}
	return exts
}

type session struct {
	engine *Engine
	cfg    *domain.EngineConfig
	build  api.BuildContext
	reloc  *relocator

	mu     sync.Mutex
	closed bool
}

// Run reuses a valid cached bundle or rebuilds.
func (s *session) Run(_ context.Context) (*domain.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}

	if info, ok := s.warm(); ok {
		return &domain.Artifact{
			Engine: domain.EngineESBuild,
			Path:   s.cfg.OutputPath(),
			Assets: info.Assets,
			Cached: true,
		}, nil
	}

	result := s.build.Rebuild()
	if len(result.Errors) > 0 {
		return nil, domain.NewBuildFailure(toDiagnostics(result.Errors), nil, nil)
	}

	artifact := &domain.Artifact{
		Engine:   domain.EngineESBuild,
		Path:     s.cfg.OutputPath(),
		Warnings: toDiagnostics(result.Warnings),
	}

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		return nil, domain.NewBuildFailure(nil, err, nil)
	}
	artifact.Assets = mergePaths(
		s.reloc.Assets(),
		meta.outputFiles(s.cfg.Root, s.cfg.OutputDir, s.cfg.OutputFile),
	)

	s.record(mergePaths(meta.inputFiles(), s.reloc.Sources()), artifact.Assets)
	s.report(artifact)
	return artifact, nil
}

// Close disposes the build context. A second call reports ErrSessionClosed.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.closed = true
	s.build.Dispose()
	return nil
}

func (s *session) outputs(assets []string) []string {
	return append([]string{s.cfg.OutputFile}, assets...)
}

// warm reports whether the recorded build still matches config, inputs and outputs.
func (s *session) warm() (*domain.BuildInfo, bool) {
	e := s.engine
	info, err := e.store.Get(s.cfg.Cache.Dir, s.cfg.Cache.Name)
	if err != nil {
		e.logger.Warn("ignoring unreadable build record: " + err.Error())
		return nil, false
	}
	if info == nil || info.Fingerprint != s.cfg.Cache.Fingerprint {
		return nil, false
	}

	outputs := s.outputs(info.Assets)
	if ok, err := e.verifier.VerifyOutputs(s.cfg.OutputDir, outputs); err != nil || !ok {
		return nil, false
	}

	inputHash, err := e.hasher.ComputeInputHash(info.Inputs, s.cfg.Root)
	if err != nil || inputHash != info.InputHash {
		return nil, false
	}

	outputHash, err := e.hasher.ComputeOutputHash(outputs, s.cfg.OutputDir)
	if err != nil || outputHash != info.OutputHash {
		return nil, false
	}
	return info, true
}

// record stores the build record. Failures only cost the next warm start.
func (s *session) record(inputs, assets []string) {
	e := s.engine
	inputHash, err := e.hasher.ComputeInputHash(inputs, s.cfg.Root)
	if err != nil {
		e.logger.Warn("skipping build record: " + err.Error())
		return
	}
	outputHash, err := e.hasher.ComputeOutputHash(s.outputs(assets), s.cfg.OutputDir)
	if err != nil {
		e.logger.Warn("skipping build record: " + err.Error())
		return
	}

	info := domain.BuildInfo{
		Name:        s.cfg.Cache.Name,
		Engine:      domain.EngineESBuild,
		Fingerprint: s.cfg.Cache.Fingerprint,
		Inputs:      inputs,
		InputHash:   inputHash,
		OutputHash:  outputHash,
		Assets:      assets,
		Timestamp:   time.Now(),
	}
	if err := e.store.Put(s.cfg.Cache.Dir, info); err != nil {
		e.logger.Warn("failed to write build record: " + err.Error())
	}
}

func (s *session) report(artifact *domain.Artifact) {
	if !s.cfg.Verbose {
		return
	}
	for _, asset := range artifact.Assets {
		s.engine.logger.Info("relocated " + asset)
	}
	for _, warning := range artifact.Warnings {
		s.engine.logger.Warn(warning.String())
	}
}

func mergePaths(sets ...[]string) []string {
	var merged []string
	for _, set := range sets {
		merged = append(merged, set...)
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}
