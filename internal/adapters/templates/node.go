package templates

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the template compiler Graft node.
const NodeID graft.ID = "adapter.template_compiler"

func init() {
	graft.Register(graft.Node[ports.TemplateCompiler]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TemplateCompiler, error) {
			return NewDefaultRegistry(), nil
		},
	})
}
