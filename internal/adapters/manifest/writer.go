package manifest

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	assetfs "go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ ports.AssetCommitter = (*Writer)(nil)

// Writer implements ports.AssetCommitter.
type Writer struct {
	output   ports.OutputWriter
	store    ports.RevisionStore
	notifier ports.ReloadNotifier
}

// NewWriter creates a Writer. A nil notifier disables live reload notifications.
func NewWriter(output ports.OutputWriter, store ports.RevisionStore, notifier ports.ReloadNotifier) *Writer {
	return &Writer{output: output, store: store, notifier: notifier}
}

// Commit writes files below <dist>/<dir>, announces every written file that
// matches the reload patterns and finally merges the revisioned names into
// the revision manifest. The manifest is only touched once all files exist.
func (w *Writer) Commit(ctx context.Context, cfg *domain.Config, dir string, files []domain.OutputFile) ([]string, error) {
	m := &cfg.Manifest
	dir = path.Clean(filepath.ToSlash(dir))
	update := domain.RevisionManifest{}
	var written []string

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		rel := path.Join(dir, file.Name)
		changed, err := w.output.WriteIfChanged(filepath.Join(m.DistRoot, filepath.FromSlash(rel)), file.Contents)
		if err != nil {
			return written, err
		}
		if file.Revisioned {
			update[path.Join(dir, file.Logical)] = rel
		}
		if !changed {
			continue
		}
		written = append(written, rel)

		if w.notifier != nil && assetfs.Match(m.ReloadMatch, rel) {
			w.notifier.Notify(PublicURL(m.PublicPath, rel))
		}
	}

	if len(update) == 0 {
		return written, nil
	}
	_, err := w.store.Merge(m.DistRoot, update)
	return written, err
}

// PublicURL joins the public base path and a dist-relative path.
func PublicURL(publicPath, rel string) string {
	return "/" + strings.TrimPrefix(path.Join(publicPath, rel), "/")
}
