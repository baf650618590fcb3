package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// StyleProcessor runs a stylesheet through the transform chain.
//
//go:generate mockgen -source=style_processor.go -destination=mocks/mock_style_processor.go -package=mocks
type StyleProcessor interface {
	// Process returns the transformed asset. The input is not modified.
	Process(ctx context.Context, cfg *domain.Config, asset domain.Asset) (domain.Asset, error)
}
