package styles

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/adapters/manifest"
	stylechain "go.trai.ch/assetpipe/internal/adapters/styles"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the styles task Graft node.
const NodeID graft.ID = "task.styles"

func init() {
	graft.Register(graft.Node[*Task]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			stylechain.NodeID,
			fs.HasherNodeID,
			manifest.WriterNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Task, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			processor, err := graft.Dep[ports.StyleProcessor](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			committer, err := graft.Dep[ports.AssetCommitter](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(resolver, processor, hasher, committer, log), nil
		},
	})
}
