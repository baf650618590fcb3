package wiredep

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/adapters/manifest"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the wiredep task Graft node.
const NodeID graft.ID = "task.wiredep"

func init() {
	graft.Register(graft.Node[*Task]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, manifest.StoreNodeID, fs.WriterNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Task, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.RevisionStore](ctx)
			if err != nil {
				return nil, err
			}
			output, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(walker, store, output, log), nil
		},
	})
}
