package webpack

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/qeb/internal/adapters/logger"
	"go.trai.ch/qeb/internal/adapters/shell"
	"go.trai.ch/qeb/internal/core/ports"
)

// NodeID is the unique identifier for the webpack engine Graft node.
const NodeID graft.ID = "adapter.engine.webpack"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(executor, log), nil
		},
	})
}
