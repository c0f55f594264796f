package plugins

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/qeb/internal/adapters/logger"
	"go.trai.ch/qeb/internal/core/ports"
)

// NodeID is the unique identifier for the plugin printer node.
const NodeID graft.ID = "adapter.plugins"

func init() {
	graft.Register(graft.Node[ports.PluginPrinter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PluginPrinter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPrinter(log), nil
		},
	})
}
