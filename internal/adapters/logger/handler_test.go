package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpipe/internal/adapters/logger"
)

func TestConsoleHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		msg   string
		want  string
	}{
		{name: "info", level: slog.LevelInfo, msg: "info message", want: "info message\n"},
		{name: "warn", level: slog.LevelWarn, msg: "warn message", want: "! warn message\n"},
		{name: "error", level: slog.LevelError, msg: "error message", want: "✗ error message\n"},
		{name: "debug filtered", level: slog.LevelDebug, msg: "debug message", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewConsoleHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, tt.msg)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleHandler_AttrsAndGroups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewConsoleHandler(buf, nil)).With("task", "styles").WithGroup("bundle")
	lg.Info("built", "name", "main.css")

	assert.Equal(t, "built bundle.task=styles bundle.name=main.css\n", buf.String())
}

func TestConsoleHandler_LocationTrail(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		msg   string
		args  []any
		want  string
	}{
		{
			name:  "ordered trail",
			level: slog.LevelWarn,
			msg:   "kept previous output",
			args:  []any{"plugin", "sass", "bundle", "main.css", "file", "styles/a.scss", "task", "styles"},
			want:  "! kept previous output (styles › main.css › styles/a.scss › sass)\n",
		},
		{
			name:  "trail on first line only",
			level: slog.LevelError,
			msg:   "Error: bundle build failed\n  cause",
			args:  []any{"bundle", "main.css", "reason", "syntax"},
			want:  "✗ Error: bundle build failed (main.css)\n  cause reason=syntax\n",
		},
		{
			name:  "empty value skipped",
			level: slog.LevelInfo,
			msg:   "built",
			args:  []any{"bundle", "", "file", "styles/main.css"},
			want:  "built (styles/main.css)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewConsoleHandler(buf, nil))
			lg.Log(t.Context(), tt.level, tt.msg, tt.args...)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleHandler_LocationFromWith(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewConsoleHandler(buf, nil)).With("task", "styles")
	lg.Info("built", "bundle", "main.css", "task", "ignored")

	assert.Equal(t, "built (styles › main.css)\n", buf.String())
}
