package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/livereload"
	"go.trai.ch/assetpipe/internal/core/ports"
)

const (
	// StoreNodeID is the unique identifier for the revision store Graft node.
	StoreNodeID graft.ID = "adapter.revision_store"
	// WriterNodeID is the unique identifier for the asset committer Graft node.
	WriterNodeID graft.ID = "adapter.asset_committer"
	// PrunerNodeID is the unique identifier for the pruner Graft node.
	PrunerNodeID graft.ID = "adapter.pruner"
)

func init() {
	graft.Register(graft.Node[ports.RevisionStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RevisionStore, error) {
			return NewStore(), nil
		},
	})

	graft.Register(graft.Node[ports.AssetCommitter]{
		ID:        WriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WriterNodeID, StoreNodeID, livereload.NodeID},
		Run: func(ctx context.Context) (ports.AssetCommitter, error) {
			output, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.RevisionStore](ctx)
			if err != nil {
				return nil, err
			}
			notifier, err := graft.Dep[ports.ReloadNotifier](ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(output, store, notifier), nil
		},
	})

	graft.Register(graft.Node[*Pruner]{
		ID:        PrunerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{StoreNodeID, fs.WalkerNodeID},
		Run: func(ctx context.Context) (*Pruner, error) {
			store, err := graft.Dep[ports.RevisionStore](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewPruner(store, walker), nil
		},
	})
}
