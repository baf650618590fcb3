// Package scheduler runs pipeline tasks in dependency order.
package scheduler

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reports holds the report of every task that ran, by task name.
type Reports map[string]*domain.TaskReport

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	tracer ports.Tracer

	mu      sync.RWMutex
	runners map[string]ports.TaskRunner
}

// NewScheduler creates a new Scheduler reporting through tracer.
func NewScheduler(tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		tracer:  tracer,
		runners: make(map[string]ports.TaskRunner),
	}
}

// Register binds runner to the task called name, replacing any previous runner.
func (s *Scheduler) Register(name string, runner ports.TaskRunner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runners[name] = runner
}

func (s *Scheduler) runner(name string) (ports.TaskRunner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runners[name]
	return r, ok
}

// Run executes targets and their dependencies with at most parallelism tasks
// at a time. Tasks named in another task's After list only order that task
// when both are part of the run. A task starts once every predecessor in the
// run has succeeded; tasks behind a failure never start. All task errors are
// joined into the returned error.
func (s *Scheduler) Run(
	ctx context.Context,
	graph *domain.Graph,
	cfg *domain.Config,
	targets []string,
	parallelism int,
) (Reports, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}
	if parallelism < 1 {
		parallelism = 1
	}

	state, err := s.newRunState(ctx, graph, cfg, targets, parallelism)
	if err != nil {
		return nil, err
	}

	s.tracer.EmitPlan(ctx, state.planned, state.deps, targets)

	err = state.loop()
	return state.reports, err
}

type result struct {
	task   string
	report *domain.TaskReport
	err    error
}

type runState struct {
	s           *Scheduler
	ctx         context.Context
	graph       *domain.Graph
	cfg         *domain.Config
	parallelism int

	// planned lists the run's tasks in graph order; deps maps each to its
	// predecessors within the run.
	planned []string
	deps    map[string][]string

	inDegree map[string]int
	ready    []string
	active   int
	results  chan result
	reports  Reports
	errs     error
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	cfg *domain.Config,
	targets []string,
	parallelism int,
) (*runState, error) {
	inRun, err := collect(graph, targets)
	if err != nil {
		return nil, err
	}

	state := &runState{
		s:           s,
		ctx:         ctx,
		graph:       graph,
		cfg:         cfg,
		parallelism: parallelism,
		deps:        make(map[string][]string, len(inRun)),
		inDegree:    make(map[string]int, len(inRun)),
		results:     make(chan result, parallelism),
		reports:     make(Reports, len(inRun)),
	}

	for task := range graph.Walk() {
		if !inRun[task.Name] {
			continue
		}
		if _, ok := s.runner(task.Name); !ok {
			return nil, zerr.With(domain.ErrTaskRunnerMissing, "task", task.Name)
		}

		var preds []string
		for _, p := range task.Predecessors() {
			if inRun[p] && !slices.Contains(preds, p) {
				preds = append(preds, p)
			}
		}
		state.planned = append(state.planned, task.Name)
		state.deps[task.Name] = preds
		state.inDegree[task.Name] = len(preds)
		if len(preds) == 0 {
			state.ready = append(state.ready, task.Name)
		}
	}

	return state, nil
}

// collect returns targets plus everything they depend on. Ordering-only
// edges do not pull tasks in.
func collect(graph *domain.Graph, targets []string) (map[string]bool, error) {
	inRun := make(map[string]bool)
	queue := make([]string, 0, len(targets))

	for _, name := range targets {
		if _, ok := graph.GetTask(name); !ok {
			return nil, zerr.With(domain.ErrTaskNotFound, "task", name)
		}
		queue = append(queue, name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if inRun[name] {
			continue
		}
		inRun[name] = true

		task, _ := graph.GetTask(name)
		queue = append(queue, task.Dependencies...)
	}

	return inRun, nil
}

func (state *runState) loop() error {
	for {
		state.schedule()
		if state.active == 0 {
			break
		}

		select {
		case res := <-state.results:
			state.handle(res)
		case <-state.ctx.Done():
			// Running tasks observe the same context; drain them.
			for state.active > 0 {
				state.handle(<-state.results)
			}
			return errors.Join(state.errs, state.ctx.Err())
		}
	}

	if err := state.ctx.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}
	return state.errs
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		go state.execute(name)
	}
}

func (state *runState) execute(name string) {
	// The span ends before the result is sent so renderers see the task
	// finish before the run does.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, name)
		defer span.End()

		runner, _ := state.s.runner(name)
		report, err := runner.Run(ctx, state.cfg, span)
		if err != nil {
			span.RecordError(err)
		}
		if report != nil {
			span.SetAttribute("written", len(report.WrittenPaths()))
			span.SetAttribute("failed", len(report.Failures()))
		}
		return result{task: name, report: report, err: err}
	}()

	state.results <- res
}

func (state *runState) handle(res result) {
	state.active--
	if res.report != nil {
		state.reports[res.task] = res.report
	}

	if res.err != nil {
		err := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task)
		state.errs = errors.Join(state.errs, err)
		return
	}

	for _, dep := range state.graph.Dependents(res.task) {
		if _, ok := state.inDegree[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
