package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

//go:generate mockgen -source=assets.go -destination=mocks/mock_assets.go -package=mocks

// RevisionStore persists the revision manifest.
type RevisionStore interface {
	// Load returns the manifest stored under distRoot, or an empty manifest
	// when none exists.
	Load(distRoot string) (domain.RevisionManifest, error)
	// Merge unions update into the manifest stored under distRoot and
	// returns the result.
	Merge(distRoot string, update domain.RevisionManifest) (domain.RevisionManifest, error)
}

// AssetCommitter writes built files to the dist tree.
type AssetCommitter interface {
	// Commit writes files below dir, a path relative to the dist root.
	// It notifies live reload for each written file and, once every file
	// exists, merges revisioned names into the revision manifest. It returns
	// the dist-relative paths it actually wrote; identical files are skipped.
	Commit(ctx context.Context, cfg *domain.Config, dir string, files []domain.OutputFile) ([]string, error)
}

// ReloadNotifier pushes changed paths to connected live reload clients.
type ReloadNotifier interface {
	// Notify announces that the file at path, relative to the served root, changed.
	Notify(path string)
}
