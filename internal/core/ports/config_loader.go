package ports

import "go.trai.ch/assetpipe/internal/core/domain"

// ConfigLoader defines the interface for resolving the run configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the asset manifest named by opts relative to cwd and returns the
	// frozen configuration for the run.
	Load(cwd string, opts domain.Options) (*domain.Config, error)
}
