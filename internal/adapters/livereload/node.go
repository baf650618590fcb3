package livereload

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the reload notifier Graft node.
	NodeID graft.ID = "adapter.livereload"
	// HubNodeID is the unique identifier for the concrete hub Graft node.
	HubNodeID graft.ID = "adapter.livereload_hub"
)

func init() {
	graft.Register(graft.Node[*Hub]{
		ID:        HubNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Hub, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewHub(log), nil
		},
	})

	graft.Register(graft.Node[ports.ReloadNotifier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{HubNodeID},
		Run: func(ctx context.Context) (ports.ReloadNotifier, error) {
			hub, err := graft.Dep[*Hub](ctx)
			if err != nil {
				return nil, err
			}
			return hub, nil
		},
	})
}
