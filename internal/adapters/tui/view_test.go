package tui_test

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpipe/internal/adapters/tui"
)

func TestView_Empty(t *testing.T) {
	assert.Contains(t, tui.NewModel(io.Discard).View(), "Waiting for tasks")
}

func TestView_TaskList(t *testing.T) {
	m := planned(t).WithClock(func() time.Time { return t0.Add(2 * time.Second) })
	m = update(t, m,
		tui.MsgTaskStart{SpanID: "s1", Name: "styles", StartTime: t0},
		tui.MsgTaskComplete{SpanID: "s1", EndTime: t0.Add(250 * time.Millisecond)},
		tui.MsgTaskStart{SpanID: "s2", Name: "templates", StartTime: t0},
	)

	view := m.View()
	assert.Contains(t, view, "TASKS")
	assert.Contains(t, view, "✓")
	assert.Contains(t, view, "styles")
	assert.Contains(t, view, "250ms")
	assert.Contains(t, view, "2s", "running tasks show time so far")
	assert.Contains(t, view, "after styles, templates")
	assert.NotContains(t, view, "LOGS", "the log pane waits for the terminal size")
}

func TestView_LogPane(t *testing.T) {
	m := planned(t)
	m = update(t, m,
		tea.WindowSizeMsg{Width: 120, Height: 30},
		tui.MsgTaskStart{SpanID: "s1", Name: "styles", StartTime: t0},
		tui.MsgTaskLog{SpanID: "s1", Data: []byte("built styles/main.css\n")},
	)

	view := m.View()
	assert.Contains(t, view, "LOGS: styles (following)")
	assert.Contains(t, view, "built styles/main.css")
}

func TestView_FailedTask(t *testing.T) {
	m := planned(t)
	m = update(t, m,
		tea.WindowSizeMsg{Width: 160, Height: 30},
		tui.MsgTaskStart{SpanID: "s1", Name: "styles", StartTime: t0},
		tui.MsgTaskComplete{SpanID: "s1", EndTime: t0, Err: errors.New("undefined variable")},
	)

	view := m.View()
	assert.Contains(t, view, "FAILED: styles")
	assert.Contains(t, view, "undefined variable")
	assert.Contains(t, view, "✗")
}
