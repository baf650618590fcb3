// Package tui renders pipeline progress as an interactive task view.
package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/assetpipe/internal/ui/output"
)

const (
	taskListWidthRatio = 0.35
	logPaneBorderWidth = 4
	maxLogLines        = 500
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting on its dependencies.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task completed successfully.
	StatusDone TaskStatus = "Done"
	// StatusError indicates the task failed.
	StatusError TaskStatus = "Error"
)

// TaskNode is one planned task and the output it has produced so far.
type TaskNode struct {
	Name      string
	Status    TaskStatus
	DependsOn []string
	Started   time.Time
	Ended     time.Time
	Err       error
	// Lines holds the most recent complete output lines.
	Lines   []string
	partial []byte
}

func (n *TaskNode) appendLog(data []byte) {
	n.partial = append(n.partial, data...)
	for {
		i := bytes.IndexByte(n.partial, '\n')
		if i < 0 {
			return
		}
		n.addLine(string(bytes.TrimRight(n.partial[:i], "\r")))
		n.partial = n.partial[i+1:]
	}
}

func (n *TaskNode) flushLog() {
	if len(n.partial) > 0 {
		n.addLine(string(n.partial))
		n.partial = nil
	}
}

func (n *TaskNode) addLine(line string) {
	n.Lines = append(n.Lines, line)
	if len(n.Lines) > maxLogLines {
		n.Lines = n.Lines[len(n.Lines)-maxLogLines:]
	}
}

// Elapsed returns how long the task ran, or has been running at now.
func (n *TaskNode) Elapsed(now time.Time) time.Duration {
	switch {
	case n.Started.IsZero():
		return 0
	case n.Ended.IsZero():
		return now.Sub(n.Started)
	default:
		return n.Ended.Sub(n.Started)
	}
}

// Messages sent by the Renderer into the program.
type (
	// MsgPlan announces the tasks of a run in execution order.
	MsgPlan struct {
		Tasks        []string
		Dependencies map[string][]string
		Targets      []string
	}
	// MsgTaskStart marks a task as running.
	MsgTaskStart struct {
		SpanID    string
		ParentID  string
		Name      string
		StartTime time.Time
	}
	// MsgTaskLog carries task output; it may end mid-line.
	MsgTaskLog struct {
		SpanID string
		Data   []byte
	}
	// MsgTaskComplete marks a task as finished.
	MsgTaskComplete struct {
		SpanID  string
		EndTime time.Time
		Err     error
	}
)

// Model is the Bubble Tea state of the task view.
type Model struct {
	Tasks       []*TaskNode
	TaskMap     map[string]*TaskNode
	SpanMap     map[string]*TaskNode
	Targets     []string
	SelectedIdx int
	// FollowMode moves the selection to whichever task started last.
	FollowMode  bool
	Width       int
	Height      int
	Interrupted bool

	spinner     spinner.Model
	logs        viewport.Model
	onInterrupt func()
	now         func() time.Time
}

// NewModel creates an empty model whose colors match the profile of w.
func NewModel(w io.Writer) *Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	return &Model{
		TaskMap:    make(map[string]*TaskNode),
		SpanMap:    make(map[string]*TaskNode),
		FollowMode: true,
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(taskRunningStyle)),
		logs:       viewport.New(0, 0),
		now:        time.Now,
	}
}

// WithClock replaces the time source used for running tasks.
func (m *Model) WithClock(now func() time.Time) *Model {
	m.now = now
	return m
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message type
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		listWidth := int(float64(msg.Width) * taskListWidthRatio)
		m.logs.Width = max(msg.Width-listWidth-logPaneBorderWidth, 0)
		m.logs.Height = max(msg.Height-lipgloss.Height(titleStyle.Render("LOGS"))-1, 0)
		m.refreshLogs()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgPlan:
		m.Tasks = make([]*TaskNode, len(msg.Tasks))
		m.TaskMap = make(map[string]*TaskNode, len(msg.Tasks))
		m.SpanMap = make(map[string]*TaskNode)
		m.Targets = msg.Targets
		for i, name := range msg.Tasks {
			m.Tasks[i] = &TaskNode{Name: name, Status: StatusPending, DependsOn: msg.Dependencies[name]}
			m.TaskMap[name] = m.Tasks[i]
		}
		m.SelectedIdx = 0
		m.refreshLogs()

	case MsgTaskStart:
		if node, ok := m.TaskMap[msg.Name]; ok {
			node.Status = StatusRunning
			node.Started = msg.StartTime
			m.SpanMap[msg.SpanID] = node
			if m.FollowMode {
				m.selectTask(msg.Name)
			}
		}

	case MsgTaskLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.appendLog(msg.Data)
			if node == m.selected() {
				m.refreshLogs()
			}
		}

	case MsgTaskComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.flushLog()
			node.Ended = msg.EndTime
			node.Err = msg.Err
			node.Status = StatusDone
			if msg.Err != nil {
				node.Status = StatusError
				if m.FollowMode {
					m.selectTask(node.Name)
				}
			}
			m.refreshLogs()
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Interrupted = true
		if m.onInterrupt != nil {
			m.onInterrupt()
		}
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.refreshLogs()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Tasks)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.refreshLogs()
		}
	case "esc":
		m.FollowMode = true
		for _, t := range m.Tasks {
			if t.Status == StatusRunning {
				m.selectTask(t.Name)
				break
			}
		}
	default:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) selected() *TaskNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Tasks) {
		return m.Tasks[m.SelectedIdx]
	}
	return nil
}

func (m *Model) selectTask(name string) {
	for i, t := range m.Tasks {
		if t.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.refreshLogs()
}

func (m *Model) refreshLogs() {
	node := m.selected()
	if node == nil {
		m.logs.SetContent("")
		return
	}
	m.logs.SetContent(strings.Join(node.Lines, "\n"))
	if m.FollowMode {
		m.logs.GotoBottom()
	}
}
