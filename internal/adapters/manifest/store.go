// Package manifest commits built assets and maintains the revision manifest.
package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	assetfs "go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RevisionStore = (*Store)(nil)

// Store implements ports.RevisionStore as a JSON file under the dist root.
// Merges are read-merge-write under a single lock, so concurrent commits in
// one process never drop each other's entries.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Path returns the revision manifest location for distRoot.
func Path(distRoot string) string {
	return filepath.Join(distRoot, domain.RevisionManifestName)
}

// Load reads the revision manifest. A missing or empty file yields an empty manifest.
func (s *Store) Load(distRoot string) (domain.RevisionManifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(Path(distRoot))
}

// Merge unions update into the manifest on disk and writes the result atomically.
func (s *Store) Merge(distRoot string, update domain.RevisionManifest) (domain.RevisionManifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := Path(distRoot)
	current, err := s.load(path)
	if err != nil {
		return nil, err
	}

	merged := current.Merge(update)

	// Map keys are marshalled in sorted order.
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRevisionManifestWriteFailed.Error()), "path", path)
	}
	data = append(data, '\n')

	if err := assetfs.WriteFile(path, data); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRevisionManifestWriteFailed.Error()), "path", path)
	}

	return merged, nil
}

func (s *Store) load(path string) (domain.RevisionManifest, error) {
	//nolint:gosec // path is derived from the configured dist root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.RevisionManifest{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRevisionManifestReadFailed.Error()), "path", path)
	}

	if len(data) == 0 {
		return domain.RevisionManifest{}, nil
	}

	manifest := domain.RevisionManifest{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRevisionManifestParseFailed.Error()), "path", path)
	}
	return manifest, nil
}
