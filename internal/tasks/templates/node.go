package templates

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/livereload"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	compilers "go.trai.ch/assetpipe/internal/adapters/templates"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the template task Graft node.
const NodeID graft.ID = "task.templates"

func init() {
	graft.Register(graft.Node[*Task]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			compilers.NodeID,
			fs.WriterNodeID,
			livereload.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Task, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			compiler, err := graft.Dep[ports.TemplateCompiler](ctx)
			if err != nil {
				return nil, err
			}
			output, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}
			notifier, err := graft.Dep[ports.ReloadNotifier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(resolver, compiler, output, notifier, log), nil
		},
	})
}
