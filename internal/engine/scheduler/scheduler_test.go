package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/telemetry"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.trai.ch/assetpipe/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// runnerFunc adapts a function to ports.TaskRunner.
type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context, _ *domain.Config, _ io.Writer) (*domain.TaskReport, error) {
	return &domain.TaskReport{}, f(ctx)
}

// recorder captures the order in which tasks start.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) runner(name string, err error) runnerFunc {
	return func(context.Context) error {
		r.mu.Lock()
		r.order = append(r.order, name)
		r.mu.Unlock()
		return err
	}
}

func (r *recorder) started() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func newPipelineScheduler(rec *recorder) *scheduler.Scheduler {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer())
	for _, name := range []string{domain.TaskStyles, domain.TaskTemplates, domain.TaskWiredep, domain.TaskBuild} {
		s.Register(name, rec.runner(name, nil))
	}
	return s
}

func TestScheduler_Run_Diamond(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := domain.NewGraph()
		require.NoError(t, g.AddTask(&domain.Task{Name: "A", Dependencies: []string{"B", "C"}}))
		require.NoError(t, g.AddTask(&domain.Task{Name: "B", Dependencies: []string{"D"}}))
		require.NoError(t, g.AddTask(&domain.Task{Name: "C", Dependencies: []string{"D"}}))
		require.NoError(t, g.AddTask(&domain.Task{Name: "D"}))

		dProceed := make(chan struct{})
		bStarted, bProceed := make(chan struct{}), make(chan struct{})
		cStarted, cProceed := make(chan struct{}), make(chan struct{})

		s := scheduler.NewScheduler(telemetry.NewNoOpTracer())
		s.Register("D", runnerFunc(func(context.Context) error { <-dProceed; return nil }))
		s.Register("B", runnerFunc(func(context.Context) error {
			close(bStarted)
			<-bProceed
			return errors.New("B failed")
		}))
		s.Register("C", runnerFunc(func(context.Context) error {
			close(cStarted)
			<-cProceed
			return nil
		}))
		s.Register("A", runnerFunc(func(context.Context) error {
			t.Error("A must not run after B failed")
			return nil
		}))

		var reports scheduler.Reports
		errCh := make(chan error, 1)
		go func() {
			var err error
			reports, err = s.Run(context.Background(), g, &domain.Config{}, []string{"A"}, 2)
			errCh <- err
		}()

		synctest.Wait()
		select {
		case <-bStarted:
			t.Fatal("B started before D finished")
		default:
		}

		close(dProceed)
		<-bStarted
		<-cStarted
		close(bProceed)
		close(cProceed)

		err := <-errCh
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())
		assert.ErrorContains(t, err, "B failed")

		assert.Contains(t, reports, "D")
		assert.Contains(t, reports, "B")
		assert.Contains(t, reports, "C")
		assert.NotContains(t, reports, "A")
	})
}

func TestScheduler_Run_OrderingEdges(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		want    []string
	}{
		{name: "styles before templates", targets: []string{domain.TaskTemplates, domain.TaskStyles}, want: []string{"styles", "templates"}},
		{name: "after edge does not pull tasks in", targets: []string{domain.TaskTemplates}, want: []string{"templates"}},
		{name: "build pulls its dependencies", targets: []string{domain.TaskBuild}, want: []string{"styles", "templates", "build"}},
		{name: "wiredep after templates", targets: []string{domain.TaskWiredep, domain.TaskBuild}, want: []string{"styles", "templates", "build", "wiredep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := newPipelineScheduler(rec)

			reports, err := s.Run(context.Background(), domain.DefaultGraph(), &domain.Config{}, tt.targets, 4)
			require.NoError(t, err)

			started := rec.started()
			assert.ElementsMatch(t, tt.want, started)
			assert.Len(t, reports, len(tt.want))
			assertBefore(t, started, "styles", "templates")
			assertBefore(t, started, "templates", "wiredep")
			assertBefore(t, started, "templates", "build")
		})
	}
}

// assertBefore checks that first started before second when both ran.
func assertBefore(t *testing.T, order []string, first, second string) {
	t.Helper()
	i, j := -1, -1
	for k, name := range order {
		switch name {
		case first:
			i = k
		case second:
			j = k
		}
	}
	if i >= 0 && j >= 0 {
		assert.Less(t, i, j, "%s must start before %s", first, second)
	}
}

func TestScheduler_Run_FailureBlocksOrderedTasks(t *testing.T) {
	rec := &recorder{}
	s := newPipelineScheduler(rec)
	s.Register(domain.TaskStyles, rec.runner(domain.TaskStyles, zerr.New("bundle build failed")))

	_, err := s.Run(context.Background(), domain.DefaultGraph(), &domain.Config{}, []string{"styles", "templates"}, 2)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "styles", zErr.Metadata()["task"])
	assert.Equal(t, []string{"styles"}, rec.started())
}

func TestScheduler_Run_Errors(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer())
	cfg := &domain.Config{}

	_, err := s.Run(context.Background(), domain.DefaultGraph(), cfg, nil, 1)
	require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)

	_, err = s.Run(context.Background(), domain.DefaultGraph(), cfg, []string{"scripts"}, 1)
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.ErrTaskNotFound.Error(), zErr.Message())
	assert.Equal(t, "scripts", zErr.Metadata()["task"])

	_, err = s.Run(context.Background(), domain.DefaultGraph(), cfg, []string{"styles"}, 1)
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.ErrTaskRunnerMissing.Error(), zErr.Message())

	cyclic := domain.NewGraph()
	require.NoError(t, cyclic.AddTask(&domain.Task{Name: "a", After: []string{"b"}}))
	require.NoError(t, cyclic.AddTask(&domain.Task{Name: "b", Dependencies: []string{"a"}}))
	_, err = s.Run(context.Background(), cyclic, cfg, []string{"a"}, 1)
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.ErrCycleDetected.Error(), zErr.Message())
}

func TestScheduler_Run_Cancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		rec := &recorder{}
		s := newPipelineScheduler(rec)
		s.Register(domain.TaskStyles, runnerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}))

		errCh := make(chan error, 1)
		go func() {
			_, err := s.Run(ctx, domain.DefaultGraph(), &domain.Config{}, []string{"build"}, 2)
			errCh <- err
		}()

		synctest.Wait()
		cancel()

		err := <-errCh
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, rec.started(), "templates and build never start")
	})
}

func TestScheduler_Run_EmitsPlanAndSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().EmitPlan(gomock.Any(),
		[]string{"styles", "templates", "build"},
		map[string][]string{"styles": nil, "templates": {"styles"}, "build": {"styles", "templates"}},
		[]string{"build"},
	)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		}).Times(3)
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().End().Times(3)

	s := scheduler.NewScheduler(tracer)
	rec := &recorder{}
	for _, name := range []string{"styles", "templates", "build"} {
		s.Register(name, rec.runner(name, nil))
	}

	_, err := s.Run(context.Background(), domain.DefaultGraph(), &domain.Config{}, []string{"build"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"styles", "templates", "build"}, rec.started())
}
