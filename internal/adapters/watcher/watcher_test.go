package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/watcher"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func nextEvent(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_MultipleRoots(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any())
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	styles := filepath.Join(t.TempDir(), "styles")
	templates := filepath.Join(t.TempDir(), "templates")
	require.NoError(t, os.MkdirAll(filepath.Join(styles, "partials"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(templates, domain.DirPerm))

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	require.NoError(t, w.Start(ctx, []string{styles, templates, missing}))
	t.Cleanup(func() { _ = w.Stop() })

	events := make(chan ports.WatchEvent)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	partial := filepath.Join(styles, "partials", "_nav.css")
	require.NoError(t, os.WriteFile(partial, []byte("nav {}"), domain.FilePerm))
	ev := nextEvent(t, events, partial)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)

	page := filepath.Join(templates, "index.pug")
	require.NoError(t, os.WriteFile(page, []byte("p hello"), domain.FilePerm))
	nextEvent(t, events, page)

	// Directories created after Start are watched too.
	nested := filepath.Join(templates, "blog")
	require.NoError(t, os.Mkdir(nested, domain.DirPerm))
	nextEvent(t, events, nested)

	post := filepath.Join(nested, "post.pug")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(post, []byte("p post"), domain.FilePerm)
		select {
		case ev := <-events:
			return ev.Path == post
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	for range events {
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
