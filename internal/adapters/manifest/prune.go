package manifest

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	assetfs "go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// revisionedPattern matches names produced by domain.RevisionedName, with an
// optional source map suffix.
var revisionedPattern = regexp.MustCompile(`-[0-9a-f]{10}(\.[^./]+)?(\.map)?$`)

// Pruner removes revisioned outputs the revision manifest no longer references.
type Pruner struct {
	store  ports.RevisionStore
	walker *assetfs.Walker
}

// NewPruner creates a Pruner.
func NewPruner(store ports.RevisionStore, walker *assetfs.Walker) *Pruner {
	return &Pruner{store: store, walker: walker}
}

// Prune deletes stale revisioned files under distRoot and returns their
// dist-relative paths. Unrevisioned files and the companions of referenced
// files are kept.
func (p *Pruner) Prune(distRoot string) ([]string, error) {
	manifest, err := p.store.Load(distRoot)
	if err != nil {
		return nil, err
	}

	live := make(map[string]struct{}, len(manifest))
	for _, rev := range manifest {
		live[rev] = struct{}{}
	}

	var removed []string
	for file := range p.walker.WalkFiles(distRoot, nil) {
		rel, err := filepath.Rel(distRoot, file)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		if !revisionedPattern.MatchString(rel) {
			continue
		}
		if _, ok := live[strings.TrimSuffix(rel, ".map")]; ok {
			continue
		}

		if err := os.Remove(file); err != nil {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", file)
		}
		removed = append(removed, rel)
	}
	return removed, nil
}
