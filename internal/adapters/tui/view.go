package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/assetpipe/internal/ui/style"
)

// View renders the task list and, once the terminal size is known, the
// output of the selected task beside it.
func (m *Model) View() string {
	if len(m.Tasks) == 0 {
		return "Waiting for tasks..."
	}
	if m.Width == 0 {
		return m.taskList()
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.logPane(),
	)
}

func (m *Model) taskList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("TASKS") + "\n\n")
	now := time.Now()
	if m.now != nil {
		now = m.now()
	}
	for i, task := range m.Tasks {
		s.WriteString(m.renderTaskRow(i, task, now) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderTaskRow(index int, task *TaskNode, now time.Time) string {
	cursor := "  "
	rowStyle := taskStyle(task)
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if task.Status == StatusPending {
			rowStyle = selectedStyle
		}
	}

	row := cursor + m.taskIcon(task) + " " + rowStyle.Render(task.Name)
	if elapsed := task.Elapsed(now); elapsed > 0 {
		row += " " + faintStyle.Render(elapsed.Round(time.Millisecond).String())
	}
	if task.Status == StatusPending && len(task.DependsOn) > 0 {
		row += " " + faintStyle.Render("after "+strings.Join(task.DependsOn, ", "))
	}
	return row
}

func (m *Model) taskIcon(task *TaskNode) string {
	switch task.Status {
	case StatusRunning:
		return m.spinner.View()
	case StatusDone:
		return taskDoneStyle.Render(style.Check)
	case StatusError:
		return taskErrorStyle.Render(style.Cross)
	default:
		return taskPendingStyle.Render("○")
	}
}

func taskStyle(task *TaskNode) lipgloss.Style {
	switch task.Status {
	case StatusRunning:
		return taskRunningStyle
	case StatusDone:
		return taskDoneStyle
	case StatusError:
		return taskErrorStyle
	default:
		return taskPendingStyle
	}
}

func (m *Model) logPane() string {
	node := m.selected()
	if node == nil {
		return logStyle.Render(titleStyle.Render("LOGS (waiting)"))
	}

	mode := "following"
	if !m.FollowMode {
		mode = "manual"
	}
	header := titleStyle.Render(fmt.Sprintf("LOGS: %s (%s)", node.Name, mode))
	if node.Err != nil {
		header = failureTitleStyle.Render("FAILED: "+node.Name) + " " + taskErrorStyle.Render(node.Err.Error())
	}

	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.logs.View()))
}
