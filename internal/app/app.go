// Package app implements the application layer for assetpipe.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"runtime"
	"slices"

	"go.trai.ch/assetpipe/internal/adapters/telemetry"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Tasks holds the runner of every pipeline task.
type Tasks struct {
	Templates ports.TaskRunner
	Styles    ports.TaskRunner
	Wiredep   ports.TaskRunner
}

// Pruner removes revisioned outputs that are no longer referenced.
type Pruner interface {
	Prune(distRoot string) ([]string, error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	scheduler    *scheduler.Scheduler
	renderers    RendererFactory
	pruner       Pruner
	watch        WatchDeps
	parallelism  int
}

// New creates a new App and binds the task runners to the scheduler.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	sched *scheduler.Scheduler,
	renderers RendererFactory,
	tasks Tasks,
	pruner Pruner,
	watch WatchDeps,
) *App {
	sched.Register(domain.TaskTemplates, tasks.Templates)
	sched.Register(domain.TaskStyles, tasks.Styles)
	sched.Register(domain.TaskWiredep, tasks.Wiredep)
	sched.Register(domain.TaskBuild, aggregate{})

	return &App{
		configLoader: loader,
		logger:       log,
		scheduler:    sched,
		renderers:    renderers,
		pruner:       pruner,
		watch:        watch,
		parallelism:  runtime.NumCPU(),
	}
}

// aggregate is the runner of tasks that only group their dependencies.
type aggregate struct{}

func (aggregate) Run(context.Context, *domain.Config, io.Writer) (*domain.TaskReport, error) {
	return &domain.TaskReport{}, nil
}

// Run executes the named tasks once.
func (a *App) Run(ctx context.Context, targetNames []string, opts domain.Options) error {
	// 1. Resolve the configuration
	cfg, err := a.configLoader.Load(".", opts)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Validate targets
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	// 3. Report spans through the renderer. Quitting an interactive
	// renderer cancels the run.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	renderer := a.renderers(opts)
	if r, ok := renderer.(interruptible); ok {
		r.OnInterrupt(cancel)
	}
	stop, err := a.startTelemetry(ctx, renderer)
	if err != nil {
		return err
	}

	// 4. Run the scheduler. The renderer is stopped before anything is
	// logged so log lines never interleave with its frames.
	reports, err := a.scheduler.Run(ctx, domain.DefaultGraph(), cfg, targetNames, a.parallelism)
	stop()
	return a.finish(reports, err)
}

// build runs targets through the scheduler and logs what each task skipped.
func (a *App) build(ctx context.Context, cfg *domain.Config, targets []string) error {
	return a.finish(a.scheduler.Run(ctx, domain.DefaultGraph(), cfg, targets, a.parallelism))
}

func (a *App) finish(reports scheduler.Reports, err error) error {
	for _, name := range slices.Sorted(maps.Keys(reports)) {
		if stale := reports[name].Stale(); len(stale) > 0 {
			a.logger.Warn(fmt.Sprintf("%s: kept previous output of %d failed item(s): %v", name, len(stale), stale))
		}
	}
	if err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// startTelemetry installs the span bridge and starts the renderer. The
// returned function flushes the renderer and shuts the bridge down.
func (a *App) startTelemetry(ctx context.Context, renderer ports.Renderer) (func(), error) {
	shutdown := telemetry.Setup(renderer)
	if err := renderer.Start(ctx); err != nil {
		_ = shutdown(context.WithoutCancel(ctx))
		return nil, err
	}
	return func() {
		_ = renderer.Stop()
		_ = renderer.Wait()
		_ = shutdown(context.WithoutCancel(ctx))
	}, nil
}

// Clean removes revisioned outputs the revision manifest no longer references.
func (a *App) Clean(_ context.Context, opts domain.Options) error {
	cfg, err := a.configLoader.Load(".", opts)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	removed, err := a.pruner.Prune(cfg.Manifest.DistRoot)
	for _, rel := range removed {
		a.logger.Info("removed " + rel)
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		a.logger.Info("nothing to clean")
	}
	return nil
}
