package app_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/telemetry"
	"go.trai.ch/assetpipe/internal/app"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.trai.ch/assetpipe/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

// recorder captures the order in which tasks run.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

type recordingRunner struct {
	name   string
	rec    *recorder
	err    error
	report func() *domain.TaskReport
	run    func(ctx context.Context) error
}

func (r recordingRunner) Run(ctx context.Context, _ *domain.Config, _ io.Writer) (*domain.TaskReport, error) {
	r.rec.mu.Lock()
	r.rec.order = append(r.rec.order, r.name)
	r.rec.mu.Unlock()
	if r.run != nil {
		return &domain.TaskReport{}, r.run(ctx)
	}
	if r.report != nil {
		return r.report(), r.err
	}
	return &domain.TaskReport{}, r.err
}

// pruneFunc adapts a function to app.Pruner.
type pruneFunc func(distRoot string) ([]string, error)

func (f pruneFunc) Prune(distRoot string) ([]string, error) { return f(distRoot) }

// passFilter reports every path as changed.
type passFilter struct{}

func (passFilter) Prime([]string)                  {}
func (passFilter) Changed(paths []string) []string { return paths }

// emptyWalker lists no files.
type emptyWalker struct{}

func (emptyWalker) WalkFiles(string, []string) iter.Seq[string] {
	return func(func(string) bool) {}
}

// fakeWatcher delivers events pushed on its channel.
type fakeWatcher struct {
	events chan ports.WatchEvent
	once   sync.Once
	roots  []string
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent, 8)}
}

func (w *fakeWatcher) Start(_ context.Context, roots []string) error {
	w.roots = roots
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.once.Do(func() { close(w.events) })
	return nil
}

func (w *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for e := range w.events {
			if !yield(e) {
				return
			}
		}
	}
}

// blockingServer serves until its context ends.
type blockingServer struct{}

func (blockingServer) Serve(ctx context.Context, _ *domain.Config) error {
	<-ctx.Done()
	return nil
}

type fixture struct {
	app      *app.App
	loader   *mocks.MockConfigLoader
	logger   *mocks.MockLogger
	renderer *mocks.MockRenderer
	rec      *recorder
	watcher  *fakeWatcher
	// render is what the renderer factory hands out; modes records the
	// output mode of every request.
	render ports.Renderer
	modes  []string
}

// interruptibleRenderer lets tests press the renderer's quit key.
type interruptibleRenderer struct {
	*mocks.MockRenderer
	interrupt func()
}

func (r *interruptibleRenderer) OnInterrupt(fn func()) { r.interrupt = fn }

func testConfig() *domain.Config {
	return &domain.Config{
		Manifest: domain.AssetManifest{
			SourceRoot: filepath.Join("/site", "source"),
			DistRoot:   filepath.Join("/site", "dist"),
			Templates: domain.TemplatePaths{
				Cwd:  filepath.Join("/site", "source"),
				Src:  []string{domain.DefaultTemplateGlob},
				Dest: filepath.Join("/site", "layouts"),
			},
		},
	}
}

func newFixture(t *testing.T, tasks map[string]recordingRunner, pruner app.Pruner) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		renderer: mocks.NewMockRenderer(ctrl),
		rec:      &recorder{},
		watcher:  newFakeWatcher(),
	}
	f.render = f.renderer

	runner := func(name string) ports.TaskRunner {
		r, ok := tasks[name]
		if !ok {
			r = recordingRunner{}
		}
		r.name = name
		r.rec = f.rec
		return r
	}

	f.app = app.New(
		f.loader,
		f.logger,
		scheduler.NewScheduler(telemetry.NewNoOpTracer()),
		func(opts domain.Options) ports.Renderer {
			f.modes = append(f.modes, opts.OutputMode)
			return f.render
		},
		app.Tasks{
			Templates: runner(domain.TaskTemplates),
			Styles:    runner(domain.TaskStyles),
			Wiredep:   runner(domain.TaskWiredep),
		},
		pruner,
		app.WatchDeps{
			Server:   blockingServer{},
			Watcher:  f.watcher,
			Filter:   passFilter{},
			Walker:   emptyWalker{},
			Debounce: 50 * time.Millisecond,
		},
	)
	return f
}

func (f *fixture) expectRenderer() {
	f.renderer.EXPECT().Start(gomock.Any()).Return(nil)
	f.renderer.EXPECT().Stop().Return(nil)
	f.renderer.EXPECT().Wait().Return(nil)
}

func TestApp_Run_Build(t *testing.T) {
	f := newFixture(t, nil, nil)
	opts := domain.Options{Production: true, OutputMode: domain.OutputTUI}
	f.loader.EXPECT().Load(".", opts).Return(testConfig(), nil)
	f.expectRenderer()

	require.NoError(t, f.app.Run(context.Background(), []string{domain.TaskBuild}, opts))
	assert.Equal(t, []string{domain.TaskStyles, domain.TaskTemplates}, f.rec.Order())
	assert.Equal(t, []string{domain.OutputTUI}, f.modes)
}

func TestApp_Run_InterruptCancelsTasks(t *testing.T) {
	ir := &interruptibleRenderer{}
	f := newFixture(t, map[string]recordingRunner{
		domain.TaskStyles: {run: func(ctx context.Context) error {
			ir.interrupt()
			<-ctx.Done()
			return ctx.Err()
		}},
	}, nil)
	ir.MockRenderer = f.renderer
	f.render = ir
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
	f.expectRenderer()

	err := f.app.Run(context.Background(), []string{domain.TaskBuild}, domain.Options{})
	require.Error(t, err)
	assert.ErrorContains(t, err, context.Canceled.Error())
	assert.Equal(t, []string{domain.TaskStyles}, f.rec.Order())
}

func TestApp_Run_StaleWarningAfterRendererStops(t *testing.T) {
	f := newFixture(t, map[string]recordingRunner{
		domain.TaskStyles: {report: func() *domain.TaskReport {
			r := &domain.TaskReport{}
			r.Failed("vendor.css", errors.New("undefined variable"), true)
			return r
		}},
	}, nil)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
	f.renderer.EXPECT().Start(gomock.Any()).Return(nil)
	stop := f.renderer.EXPECT().Stop().Return(nil)
	wait := f.renderer.EXPECT().Wait().Return(nil).After(stop)
	f.logger.EXPECT().Warn(gomock.Any()).After(wait)

	require.NoError(t, f.app.Run(context.Background(), []string{domain.TaskStyles}, domain.Options{}))
}

func TestApp_Run_NoTargets(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)

	err := f.app.Run(context.Background(), nil, domain.Options{})
	require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
}

func TestApp_Run_ConfigError(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(nil, domain.ErrManifestNotFound)

	err := f.app.Run(context.Background(), []string{domain.TaskStyles}, domain.Options{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestNotFound.Error())
	assert.Empty(t, f.rec.Order())
}

func TestApp_Run_TaskFailure(t *testing.T) {
	f := newFixture(t, map[string]recordingRunner{
		domain.TaskStyles: {err: errors.New("bundle broke")},
	}, nil)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
	f.expectRenderer()

	err := f.app.Run(context.Background(), []string{domain.TaskStyles, domain.TaskTemplates}, domain.Options{})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.ErrorContains(t, err, "bundle broke")
	assert.Equal(t, []string{domain.TaskStyles}, f.rec.Order(), "templates waits for styles")
}

func TestApp_Run_WarnsAboutStaleOutput(t *testing.T) {
	f := newFixture(t, map[string]recordingRunner{
		domain.TaskStyles: {report: func() *domain.TaskReport {
			r := &domain.TaskReport{}
			r.Failed("vendor.css", errors.New("undefined variable"), true)
			return r
		}},
	}, nil)
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
	f.expectRenderer()
	f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "styles")
		assert.Contains(t, msg, "vendor.css")
	})

	require.NoError(t, f.app.Run(context.Background(), []string{domain.TaskStyles}, domain.Options{}))
}

func TestApp_Clean(t *testing.T) {
	var pruned string
	f := newFixture(t, nil, pruneFunc(func(distRoot string) ([]string, error) {
		pruned = distRoot
		return []string{"styles/main-0123456789.css"}, nil
	}))
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
	f.logger.EXPECT().Info("removed styles/main-0123456789.css")

	require.NoError(t, f.app.Clean(context.Background(), domain.Options{}))
	assert.Equal(t, filepath.Join("/site", "dist"), pruned)
}

func TestApp_Clean_Nothing(t *testing.T) {
	f := newFixture(t, nil, pruneFunc(func(string) ([]string, error) { return nil, nil }))
	f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
	f.logger.EXPECT().Info("nothing to clean")

	require.NoError(t, f.app.Clean(context.Background(), domain.Options{}))
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
		f.expectRenderer()

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- f.app.Watch(ctx, domain.Options{}) }()

		synctest.Wait()
		assert.Equal(t, []string{domain.TaskStyles, domain.TaskTemplates}, f.rec.Order(), "initial build")
		assert.Equal(t, []string{
			filepath.Join("/site", "source", "styles"),
			filepath.Join("/site", "source", "templates"),
		}, f.watcher.roots)

		f.watcher.events <- ports.WatchEvent{Path: filepath.Join("/site", "source", "templates", "index.pug")}
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, []string{
			domain.TaskStyles, domain.TaskTemplates,
			domain.TaskTemplates,
		}, f.rec.Order())

		f.watcher.events <- ports.WatchEvent{Path: filepath.Join("/site", "source", "styles", "main.css")}
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, []string{
			domain.TaskStyles, domain.TaskTemplates,
			domain.TaskTemplates,
			domain.TaskStyles, domain.TaskTemplates,
		}, f.rec.Order())

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []string{domain.OutputLinear}, f.modes, "watch always renders linearly")
	})
}

func TestApp_Watch_InitialFailureKeepsServing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, map[string]recordingRunner{
			domain.TaskStyles: {err: errors.New("bundle broke")},
		}, nil)
		f.loader.EXPECT().Load(".", gomock.Any()).Return(testConfig(), nil)
		f.expectRenderer()
		f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
			assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
		})

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- f.app.Watch(ctx, domain.Options{}) }()

		synctest.Wait()
		select {
		case err := <-done:
			t.Fatalf("watch returned early: %v", err)
		default:
		}

		cancel()
		require.NoError(t, <-done)
	})
}
