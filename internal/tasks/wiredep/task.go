// Package wiredep implements the dependency injector task. It points vendor
// references in compiled layouts at their locally bundled copies.
package wiredep

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	assetfs "go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/manifest"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TaskRunner = (*Task)(nil)

// Task rewrites vendor references in the layout directory in place.
type Task struct {
	walker *assetfs.Walker
	store  ports.RevisionStore
	output ports.OutputWriter
	logger ports.Logger
}

// New creates a Task.
func New(walker *assetfs.Walker, store ports.RevisionStore, output ports.OutputWriter, logger ports.Logger) *Task {
	return &Task{walker: walker, store: store, output: output, logger: logger}
}

// Run rewrites every HTML file below the layout directory. Files whose
// content does not change are not written, so repeated runs are no-ops.
func (t *Task) Run(ctx context.Context, cfg *domain.Config, out io.Writer) (*domain.TaskReport, error) {
	report := &domain.TaskReport{}
	m := &cfg.Manifest

	revisions, err := t.store.Load(m.DistRoot)
	if err != nil {
		return report, err
	}
	url := func(rel string) string {
		return manifest.PublicURL(m.PublicPath, revisions.Resolve(rel))
	}

	dest := m.Templates.Dest
	for file := range t.walker.WalkFiles(dest, nil) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !strings.EqualFold(filepath.Ext(file), domain.HTMLExt) {
			continue
		}

		rel, err := filepath.Rel(dest, file)
		if err != nil {
			rel = file
		}
		rel = filepath.ToSlash(rel)

		err = t.inject(file, rel, m.Vendor, url, report, out)
		if err == nil {
			continue
		}
		if cfg.Features.FailOnTemplateError {
			return report, err
		}
		t.logger.Error(err)
		report.Failed(rel, err, false)
	}

	return report, nil
}

func (t *Task) inject(
	file, rel string,
	vendor []domain.VendorDependency,
	url resolver,
	report *domain.TaskReport,
	out io.Writer,
) error {
	doc, err := os.ReadFile(file) //nolint:gosec // Path comes from walking the layout dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", rel)
	}

	rewritten, err := rewrite(doc, vendor, url)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInjectFailed.Error()), "file", rel)
	}

	written, err := t.output.WriteIfChanged(file, rewritten)
	if err != nil {
		return zerr.With(err, "file", rel)
	}
	if !written {
		report.Unchanged(rel)
		return nil
	}
	report.Written(rel)
	_, _ = fmt.Fprintf(out, "injected %s\n", rel)
	return nil
}
