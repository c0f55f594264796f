// Package orchestrator drives a single query engine bundle build.
package orchestrator

import (
	"context"
	"fmt"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ConfigAssembler builds the engine configuration for a request.
type ConfigAssembler interface {
	Assemble(req domain.BuildRequest, snapshot string, kind domain.EngineKind) (*domain.EngineConfig, error)
}

// StateHook observes lifecycle transitions.
type StateHook func(domain.BuildState)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStateHook registers hook to observe every state the build enters.
func WithStateHook(hook StateHook) Option {
	return func(o *Orchestrator) {
		o.hook = hook
	}
}

// Orchestrator selects an engine and runs it through its lifecycle.
type Orchestrator struct {
	engines   map[domain.EngineKind]ports.Engine
	assembler ConfigAssembler
	snapshots ports.SnapshotReader
	plugins   ports.PluginPrinter
	telemetry ports.TelemetryProvider
	logger    ports.Logger
	hook      StateHook
}

// New creates a new Orchestrator. A later engine of the same kind replaces an earlier one.
func New(
	engines []ports.Engine,
	assembler ConfigAssembler,
	snapshots ports.SnapshotReader,
	plugins ports.PluginPrinter,
	telemetry ports.TelemetryProvider,
	logger ports.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		engines:   make(map[domain.EngineKind]ports.Engine, len(engines)),
		assembler: assembler,
		snapshots: snapshots,
		plugins:   plugins,
		telemetry: telemetry,
		logger:    logger,
	}
	for _, e := range engines {
		o.engines[e.Kind()] = e
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Build produces the bundle described by req.
// Failures before the engine is opened leave the build in NOT_STARTED and are
// returned as is. Once opened, the session is always closed and the result
// follows run-over-close precedence.
func (o *Orchestrator) Build(ctx context.Context, req domain.BuildRequest) (*domain.Artifact, error) {
	kind := req.Toggles.Engine()
	engine, ok := o.engines[kind]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownEngine, "no engine registered"), "engine", string(kind))
	}

	recorder := o.telemetry.Recorder(req.Toggles.ProgressLogging())
	defer func() {
		if err := recorder.Close(); err != nil {
			o.logger.Warn("failed to close progress recorder: " + err.Error())
		}
	}()

	o.enter(domain.BuildStateNotStarted)

	cfg, err := o.prepare(ctx, recorder, req, kind)
	if err != nil {
		return nil, err
	}
	o.enter(domain.BuildStateEntryPrepared)

	bundleCtx, vertex := recorder.Record(ctx, "bundle "+string(kind))
	o.enter(domain.BuildStateRunning)

	artifact, err := o.run(bundleCtx, engine, cfg)
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}

	if artifact.Cached {
		vertex.Cached()
		o.logger.Info(fmt.Sprintf("reused cached %s bundle at %s", kind, artifact.Path))
	} else {
		o.logger.Info(fmt.Sprintf("built %s bundle at %s", kind, artifact.Path))
	}
	return artifact, nil
}

// prepare reads the snapshot and enumerates plugins concurrently, then assembles the configuration.
func (o *Orchestrator) prepare(
	ctx context.Context,
	recorder ports.Telemetry,
	req domain.BuildRequest,
	kind domain.EngineKind,
) (cfg *domain.EngineConfig, err error) {
	ctx, vertex := recorder.Record(ctx, "prepare")
	defer func() { vertex.Complete(err) }()

	// Both preparations run to completion. An unreadable snapshot is reported
	// ahead of a plugin enumeration failure.
	var (
		snapshot string
		readErr  error
		g        errgroup.Group
	)
	g.Go(func() error {
		snapshot, readErr = o.snapshots.Read(ctx, domain.SchemaSnapshotPath(req.RootDirectory))
		return nil
	})
	g.Go(func() error {
		return o.plugins.Print(ctx, req.RootDirectory, req.Settings.Plugins)
	})
	printErr := g.Wait()
	if readErr != nil {
		return nil, readErr
	}
	if printErr != nil {
		return nil, printErr
	}

	return o.assembler.Assemble(req, snapshot, kind)
}

// run opens a session, runs it and closes it on every path past a successful Open.
func (o *Orchestrator) run(ctx context.Context, engine ports.Engine, cfg *domain.EngineConfig) (*domain.Artifact, error) {
	session, err := engine.Open(ctx, cfg)
	if err != nil {
		o.enter(domain.BuildStateFailed)
		o.enter(domain.BuildStateClosed)
		return nil, domain.NewBuildFailure(nil, err, nil)
	}

	artifact, runErr := session.Run(ctx)
	if runErr != nil {
		o.enter(domain.BuildStateFailed)
	} else {
		o.enter(domain.BuildStateSucceeded)
	}

	closeErr := session.Close()
	o.enter(domain.BuildStateClosed)

	if err := domain.NewBuildFailure(nil, runErr, closeErr); err != nil {
		if runErr != nil && closeErr != nil {
			o.logger.Warn("engine teardown also failed: " + closeErr.Error())
		}
		return nil, err
	}
	return artifact, nil
}

func (o *Orchestrator) enter(state domain.BuildState) {
	if o.hook != nil {
		o.hook(state)
	}
}
