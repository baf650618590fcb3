package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/assetpipe/internal/adapters/telemetry"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_ReportsSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "styles", gomock.Any()),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil),
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "templates", gomock.Any()),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), errors.New("compile failed")),
	)

	tracer := tp.Tracer("test")
	_, ok := tracer.Start(context.Background(), "styles")
	ok.End()

	_, failed := tracer.Start(context.Background(), "templates")
	failed.SetStatus(codes.Error, "compile failed")
	failed.End()
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "styles")
	span.End()

	bridge := telemetry.NewBridge(nil)
	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, bridge.Shutdown(context.Background()))
}

func TestOTelTracer_StreamsToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	shutdown := telemetry.Setup(renderer)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)

	gomock.InOrder(
		renderer.EXPECT().OnPlanEmit([]string{"styles"}, map[string][]string{"styles": nil}, []string{"styles"}),
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "styles", gomock.Any()),
		renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("wrote main.css\n")),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Not(nil)),
	)

	tracer.EmitPlan(context.Background(), []string{"styles"}, map[string][]string{"styles": nil}, []string{"styles"})

	_, span := tracer.Start(context.Background(), "styles")
	n, err := span.Write([]byte("wrote main.css\n"))
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	span.SetAttribute("bundles", 2)
	span.RecordError(errors.New("bundle build failed"))
	span.End()
}

func TestOTelTracer_UsesRendererFromSetup(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := telemetry.NewOTelTracer("test")

	shutdown := telemetry.Setup(renderer)
	renderer.EXPECT().OnPlanEmit([]string{"styles"}, gomock.Any(), []string{"styles"})
	tracer.EmitPlan(context.Background(), []string{"styles"}, nil, []string{"styles"})
	require.NoError(t, shutdown(context.Background()))

	// Detached after shutdown: the mock fails on any further call.
	tracer.EmitPlan(context.Background(), []string{"styles"}, nil, []string{"styles"})
}

func TestOTelTracer_WithoutRenderer(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "styles")
	n, err := span.Write([]byte("log line"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.SetAttribute("key", "value")
	span.RecordError(nil)
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	tracer.EmitPlan(context.Background(), []string{"styles"}, nil, nil)

	ctx := context.Background()
	got, span := tracer.Start(ctx, "styles")
	assert.Equal(t, ctx, got)

	n, err := span.Write([]byte("discarded"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}
