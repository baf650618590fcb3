package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("wrote styles/main.css")

	g := goldie.New(t)
	g.Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("bundle main.css is stale")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error_Chain(t *testing.T) {
	lg, buf := newTestLogger(t)

	cause := zerr.With(zerr.Wrap(errors.New("unexpected '}'"), domain.ErrStyleTransformFailed.Error()), "file", "styles/main.css")
	err := zerr.With(zerr.Wrap(cause, domain.ErrBundleFailed.Error()), "bundle", "main.css")
	lg.Error(err)

	g := goldie.New(t)
	g.Assert(t, "error_chain", buf.Bytes())
}

func TestLogger_Error_Joined(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.Join(domain.ErrBuildExecutionFailed, zerr.With(domain.ErrTaskNotFound, "task", "scripts")))

	g := goldie.New(t)
	g.Assert(t, "error_joined", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "hello", record["msg"])

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestLogger_Error_JSONLocationFields(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	cause := zerr.With(zerr.Wrap(errors.New("unexpected '}'"), domain.ErrStyleTransformFailed.Error()), "file", "styles/main.css")
	err := zerr.With(zerr.With(zerr.Wrap(cause, domain.ErrBundleFailed.Error()), "bundle", "main.css"), "plugin", "sass")
	lg.Error(err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, domain.ErrBundleFailed.Error(), record["msg"])
	assert.Equal(t, "main.css", record["bundle"])
	assert.Equal(t, "styles/main.css", record["file"])
	assert.Equal(t, "sass", record["plugin"])
	assert.NotContains(t, record, "task")
}

func TestLogger_Error_KeepsErrorMetadata(t *testing.T) {
	lg, _ := newTestLogger(t)

	err := zerr.With(zerr.New("bundle build failed"), "bundle", "main.css")
	lg.Error(err)

	entries := logger.CollectErrorEntriesExported(err)
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"bundle": "main.css"}, entries[0].Metadata)
}
