package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/qeb/internal/core/ports"
)

const (
	WalkerNodeID   graft.ID = "adapter.fs.walker"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
	VerifierNodeID graft.ID = "adapter.fs.verifier"
	LocatorNodeID  graft.ID = "adapter.fs.locator"
	SnapshotNodeID graft.ID = "adapter.fs.snapshot"
)

func init() {
	// Walker Node (Concrete implementation needed by Hasher)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Hasher, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(walker), nil
		},
	})

	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})

	graft.Register(graft.Node[ports.ModuleLocator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleLocator, error) {
			return NewLocator(), nil
		},
	})

	graft.Register(graft.Node[ports.SnapshotReader]{
		ID:        SnapshotNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SnapshotReader, error) {
			return NewSnapshotReader(), nil
		},
	})
}
