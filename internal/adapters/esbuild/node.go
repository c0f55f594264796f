package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/qeb/internal/adapters/cas"
	"go.trai.ch/qeb/internal/adapters/fs"
	"go.trai.ch/qeb/internal/adapters/logger"
	"go.trai.ch/qeb/internal/core/ports"
)

// NodeID is the unique identifier for the esbuild engine Graft node.
const NodeID graft.ID = "adapter.engine.esbuild"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, fs.HasherNodeID, fs.VerifierNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(store, hasher, verifier, log), nil
		},
	})
}
