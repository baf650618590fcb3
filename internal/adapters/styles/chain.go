// Package styles implements the stylesheet transform chain.
package styles

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StyleProcessor = (*Chain)(nil)

// Transform is one step of the stylesheet chain.
type Transform interface {
	// Name identifies the transform in error metadata.
	Name() string
	// Apply returns asset with transformed contents.
	Apply(ctx context.Context, cfg *domain.Config, asset domain.Asset) (domain.Asset, error)
}

// Chain runs an asset through transforms in order.
type Chain struct {
	transforms []Transform
}

// NewChain creates a Chain of transforms.
func NewChain(transforms ...Transform) *Chain {
	return &Chain{transforms: transforms}
}

// DefaultTransforms returns the pipeline's stylesheet chain.
func DefaultTransforms() []Transform {
	return []Transform{
		Imports{},
		Mixins{},
		Nesting{},
		Vars{},
		Transpile{},
		Minify{},
	}
}

// Process implements ports.StyleProcessor. The first failing transform
// stops the chain.
func (c *Chain) Process(ctx context.Context, cfg *domain.Config, asset domain.Asset) (domain.Asset, error) {
	out := asset
	for _, t := range c.transforms {
		if err := ctx.Err(); err != nil {
			return asset, err
		}

		next, err := t.Apply(ctx, cfg, out)
		if err != nil {
			err = zerr.Wrap(err, domain.ErrStyleTransformFailed.Error())
			err = zerr.With(err, "plugin", t.Name())
			return asset, zerr.With(err, "file", asset.Path)
		}
		out = next
	}
	return out, nil
}
