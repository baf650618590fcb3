package app

import (
	"context"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/assetpipe/internal/adapters/watcher"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/engine/coalesce"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ChangeFilter drops watch events for files whose content is unchanged.
type ChangeFilter interface {
	Prime(paths []string)
	Changed(paths []string) []string
}

// FileWalker lists the files below a directory.
type FileWalker interface {
	WalkFiles(root string, ignores []string) iter.Seq[string]
}

// WatchDeps holds the collaborators of watch mode.
type WatchDeps struct {
	Server  ports.DevServer
	Watcher ports.Watcher
	Filter  ChangeFilter
	Walker  FileWalker
	// Debounce is the quiet period before a batch of events is handled.
	Debounce time.Duration
}

// route maps a watched directory to the tasks its changes trigger.
type route struct {
	root    string
	targets []string
}

// watchRoutes returns the watch subscriptions for cfg. Stylesheet changes
// rebuild styles then templates, since layouts may embed revisioned names.
func watchRoutes(cfg *domain.Config) []route {
	routes := []route{{
		root:    filepath.Join(cfg.Manifest.SourceRoot, domain.StylesDir),
		targets: []string{domain.TaskStyles, domain.TaskTemplates},
	}}

	t := cfg.Manifest.Templates
	var seen []string
	for _, pattern := range t.Src {
		base, _ := doublestar.SplitPattern(strings.TrimPrefix(filepath.ToSlash(pattern), "./"))
		root := filepath.Join(t.Cwd, filepath.FromSlash(base))
		if slices.Contains(seen, root) {
			continue
		}
		seen = append(seen, root)
		routes = append(routes, route{root: root, targets: []string{domain.TaskTemplates}})
	}
	return routes
}

// targetsFor returns the union of the targets of every route containing a
// changed path, in route order.
func targetsFor(routes []route, paths []string) []string {
	var targets []string
	for _, r := range routes {
		prefix := r.root + string(filepath.Separator)
		if !slices.ContainsFunc(paths, func(p string) bool {
			return p == r.root || strings.HasPrefix(p, prefix)
		}) {
			continue
		}
		for _, target := range r.targets {
			if !slices.Contains(targets, target) {
				targets = append(targets, target)
			}
		}
	}
	return targets
}

// Watch builds once, then serves the site and rebuilds on source changes
// until ctx is cancelled. Build failures are logged and never stop the server.
func (a *App) Watch(ctx context.Context, opts domain.Options) error {
	cfg, err := a.configLoader.Load(".", opts)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// Server and reload lines share the terminal with task output, so watch
	// mode always renders linearly.
	opts.OutputMode = domain.OutputLinear
	stop, err := a.startTelemetry(ctx, a.renderers(opts))
	if err != nil {
		return err
	}
	defer stop()

	if err := a.build(ctx, cfg, []string{domain.TaskBuild}); err != nil {
		a.logger.Error(err)
	}

	routes := watchRoutes(cfg)
	roots := make([]string, 0, len(routes))
	for _, r := range routes {
		roots = append(roots, r.root)
		a.watch.Filter.Prime(slices.Collect(a.watch.Walker.WalkFiles(r.root, nil)))
	}

	g, ctx := errgroup.WithContext(ctx)

	runs := coalesce.New(func(ctx context.Context, targets []string) error {
		return a.build(ctx, cfg, targets)
	}, func(err error) {
		if ctx.Err() == nil {
			a.logger.Error(err)
		}
	})

	window := a.watch.Debounce
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		if ctx.Err() != nil {
			return
		}
		if targets := targetsFor(routes, a.watch.Filter.Changed(paths)); len(targets) > 0 {
			runs.Trigger(ctx, targets)
		}
	})

	if err := a.watch.Watcher.Start(ctx, roots); err != nil {
		return err
	}

	g.Go(func() error {
		return a.watch.Server.Serve(ctx, cfg)
	})

	g.Go(func() error {
		for event := range a.watch.Watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.watch.Watcher.Stop()
	})

	err = g.Wait()
	debouncer.Flush()
	runs.Wait()
	return err
}
