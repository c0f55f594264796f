package assembler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/qeb/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/qeb/internal/core/ports"
)

// NodeID is the unique identifier for the config assembler Graft node.
const NodeID graft.ID = "engine.assembler"

func init() {
	graft.Register(graft.Node[*Assembler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.LocatorNodeID, fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Assembler, error) {
			locator, err := graft.Dep[ports.ModuleLocator](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(locator, hasher, log), nil
		},
	})
}
