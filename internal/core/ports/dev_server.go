package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// DevServer serves the site with live reload instrumentation.
//
//go:generate mockgen -source=dev_server.go -destination=mocks/mock_dev_server.go -package=mocks
type DevServer interface {
	// Serve blocks until ctx is cancelled or the listener fails.
	Serve(ctx context.Context, cfg *domain.Config) error
}
