package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/qeb/internal/adapters/esbuild"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/adapters/plugins"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/adapters/webpack"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/qeb/internal/engine/assembler"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			esbuild.NodeID,
			webpack.NodeID,
			assembler.NodeID,
			fs.SnapshotNodeID,
			plugins.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			esbuildEngine, err := graft.Dep[*esbuild.Engine](ctx)
			if err != nil {
				return nil, err
			}

			webpackEngine, err := graft.Dep[*webpack.Engine](ctx)
			if err != nil {
				return nil, err
			}

			asm, err := graft.Dep[*assembler.Assembler](ctx)
			if err != nil {
				return nil, err
			}

			snapshots, err := graft.Dep[ports.SnapshotReader](ctx)
			if err != nil {
				return nil, err
			}

			printer, err := graft.Dep[ports.PluginPrinter](ctx)
			if err != nil {
				return nil, err
			}

			provider, err := graft.Dep[ports.TelemetryProvider](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				[]ports.Engine{webpackEngine, esbuildEngine},
				asm,
				snapshots,
				printer,
				provider,
				log,
			), nil
		},
	})
}
