// Package templates implements the template compiler task.
package templates

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	assetfs "go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TaskRunner = (*Task)(nil)

// Task compiles template sources into layout HTML.
type Task struct {
	resolver ports.InputResolver
	compiler ports.TemplateCompiler
	output   ports.OutputWriter
	notifier ports.ReloadNotifier
	logger   ports.Logger
}

// New creates a Task. A nil notifier disables live reload notifications.
func New(
	resolver ports.InputResolver,
	compiler ports.TemplateCompiler,
	output ports.OutputWriter,
	notifier ports.ReloadNotifier,
	logger ports.Logger,
) *Task {
	return &Task{
		resolver: resolver,
		compiler: compiler,
		output:   output,
		notifier: notifier,
		logger:   logger,
	}
}

// source is one template and the layout path it compiles to.
type source struct {
	// rel is the path relative to the template cwd.
	rel string
	// out is the output path relative to the layout dir.
	out string
}

// Run compiles every matched template in path order. With
// FailOnTemplateError the first compile error aborts the task; otherwise
// failures are logged and recorded in the report.
func (t *Task) Run(ctx context.Context, cfg *domain.Config, out io.Writer) (*domain.TaskReport, error) {
	report := &domain.TaskReport{}
	paths := cfg.Manifest.Templates

	sources, err := t.collect(paths)
	if err != nil {
		return report, err
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		err := t.compileOne(cfg, src, report, out)
		if err == nil {
			continue
		}
		if cfg.Features.FailOnTemplateError {
			return report, err
		}
		t.logger.Error(err)
		report.Failed(src.rel, err, false)
	}

	return report, nil
}

// collect resolves every template pattern. The output path drops the static
// prefix of the pattern that matched, so templates/**/*.pug writes
// templates/blog/post.pug to blog/post.html.
func (t *Task) collect(paths domain.TemplatePaths) ([]source, error) {
	seen := make(map[string]struct{})
	var sources []source

	for _, pattern := range paths.Src {
		files, err := t.resolver.ResolveInputs([]string{pattern}, paths.Cwd)
		if err != nil {
			return nil, err
		}

		base, _ := doublestar.SplitPattern(strings.TrimPrefix(filepath.ToSlash(pattern), "./"))
		for _, file := range files {
			if _, dup := seen[file]; dup {
				continue
			}
			seen[file] = struct{}{}

			rel := file
			if base != "." && base != "" {
				rel = strings.TrimPrefix(file, strings.TrimSuffix(base, "/")+"/")
			}
			sources = append(sources, source{
				rel: file,
				out: strings.TrimSuffix(rel, path.Ext(rel)) + domain.HTMLExt,
			})
		}
	}

	slices.SortFunc(sources, func(a, b source) int {
		return strings.Compare(a.rel, b.rel)
	})
	return sources, nil
}

func (t *Task) compileOne(cfg *domain.Config, src source, report *domain.TaskReport, out io.Writer) error {
	paths := cfg.Manifest.Templates
	abs := filepath.Join(paths.Cwd, filepath.FromSlash(src.rel))

	data, err := os.ReadFile(abs)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", src.rel)
	}

	html, err := t.compiler.Compile(abs, data)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTemplateCompileFailed.Error()), "file", src.rel)
	}

	written, err := t.output.WriteIfChanged(filepath.Join(paths.Dest, filepath.FromSlash(src.out)), html)
	if err != nil {
		return zerr.With(err, "file", src.rel)
	}
	if !written {
		report.Unchanged(src.out)
		return nil
	}

	report.Written(src.out)
	_, _ = fmt.Fprintf(out, "wrote %s\n", src.out)
	if t.notifier != nil && assetfs.Match(cfg.Manifest.ReloadMatch, src.out) {
		t.notifier.Notify("/" + src.out)
	}
	return nil
}
