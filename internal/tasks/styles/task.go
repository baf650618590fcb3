// Package styles implements the stylesheet pipeline task.
package styles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	stylechain "go.trai.ch/assetpipe/internal/adapters/styles"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.TaskRunner = (*Task)(nil)

// Task builds every stylesheet bundle declared in the manifest.
type Task struct {
	resolver  ports.InputResolver
	processor ports.StyleProcessor
	hasher    ports.Hasher
	committer ports.AssetCommitter
	logger    ports.Logger
	limit     int
}

// New creates a Task building up to runtime.NumCPU bundles at once.
func New(
	resolver ports.InputResolver,
	processor ports.StyleProcessor,
	hasher ports.Hasher,
	committer ports.AssetCommitter,
	logger ports.Logger,
) *Task {
	return &Task{
		resolver:  resolver,
		processor: processor,
		hasher:    hasher,
		committer: committer,
		logger:    logger,
		limit:     runtime.NumCPU(),
	}
}

// Run builds all bundles concurrently and commits the successful ones in
// manifest order with a single revision manifest merge.
//
// A failing bundle never blocks the others. With FailOnStyleError its error
// is returned after the rest are committed; otherwise it is logged and the
// bundle's previous output is kept and reported as stale.
func (t *Task) Run(ctx context.Context, cfg *domain.Config, out io.Writer) (*domain.TaskReport, error) {
	report := &domain.TaskReport{}
	bundles := cfg.Manifest.StyleBundles()
	built := make([][]domain.OutputFile, len(bundles))
	errs := make([]error, len(bundles))

	var g errgroup.Group
	g.SetLimit(t.limit)
	for i, bundle := range bundles {
		g.Go(func() error {
			built[i], errs[i] = t.build(ctx, cfg, bundle)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	var files []domain.OutputFile
	var failed []error
	for i, bundle := range bundles {
		if err := errs[i]; err != nil {
			if cfg.Features.FailOnStyleError {
				report.Failed(bundle.Name, err, false)
				failed = append(failed, err)
				continue
			}
			t.logger.Error(err)
			report.Failed(bundle.Name, err, true)
			continue
		}
		files = append(files, built[i]...)
	}

	if len(files) > 0 {
		written, err := t.committer.Commit(ctx, cfg, domain.StylesDir, files)
		for _, f := range files {
			rel := path.Join(domain.StylesDir, f.Name)
			if slices.Contains(written, rel) {
				report.Written(rel)
				_, _ = fmt.Fprintf(out, "built %s\n", rel)
			} else if err == nil {
				report.Unchanged(rel)
			}
		}
		if err != nil {
			return report, errors.Join(append(failed, err)...)
		}
	}

	return report, errors.Join(failed...)
}

// build produces the output files of one bundle without writing them.
func (t *Task) build(ctx context.Context, cfg *domain.Config, bundle domain.Bundle) ([]domain.OutputFile, error) {
	m := &cfg.Manifest

	sources, err := t.resolver.ResolveInputs(bundle.Globs, m.SourceRoot)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "bundle", bundle.Name)
	}
	if len(sources) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrNoSourceFiles, "globs", strings.Join(bundle.Globs, ", ")), "bundle", bundle.Name)
	}

	type chunk struct {
		source    string
		original  []byte
		generated []byte
	}
	chunks := make([]chunk, 0, len(sources))

	for _, rel := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		abs := filepath.Join(m.SourceRoot, filepath.FromSlash(rel))
		data, err := os.ReadFile(abs)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", rel)
			return nil, zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "bundle", bundle.Name)
		}

		asset, err := t.processor.Process(ctx, cfg, domain.Asset{Path: rel, Abs: abs, Contents: data})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "bundle", bundle.Name)
		}

		chunks = append(chunks, chunk{
			source:    strings.TrimPrefix(rel, domain.StylesDir+"/"),
			original:  data,
			generated: bytes.TrimRight(asset.Contents, "\n"),
		})
	}

	parts := make([][]byte, len(chunks))
	for i, c := range chunks {
		parts[i] = c.generated
	}
	contents := bytes.Join(parts, []byte("\n"))

	name := bundle.Name
	if cfg.Features.Revision {
		name = domain.RevisionedName(bundle.Name, t.hasher.HashBytes(contents))
	}

	css := domain.OutputFile{
		Name:       name,
		Logical:    bundle.Name,
		Revisioned: cfg.Features.Revision,
	}

	if !cfg.Features.SourceMaps {
		css.Contents = contents
		return []domain.OutputFile{css}, nil
	}

	builder := stylechain.NewMapBuilder(name, m.MapSourceRoot)
	for _, c := range chunks {
		builder.Add(c.source, c.original, c.generated)
	}
	mapJSON, err := builder.JSON()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "bundle", bundle.Name)
	}

	mapName := name + ".map"
	css.Contents = append(contents, []byte("\n"+stylechain.MappingURLComment(mapName)+"\n")...)

	return []domain.OutputFile{
		css,
		{Name: mapName, Logical: bundle.Name + ".map", Contents: mapJSON},
	}, nil
}
