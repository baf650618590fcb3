// Package linear renders task progress as prefixed, chronological lines.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/ui/output"
	"go.trai.ch/assetpipe/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer. Task output goes to stdout prefixed
// with the task name; lifecycle lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu    sync.Mutex
	tasks map[string]*task
}

type task struct {
	name    string
	started time.Time
	pending bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers mean stdout and stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		out:    output.NewWithProfile(stderr, output.ColorProfileANSI),
		tasks:  make(map[string]*task),
	}
}

// Start does nothing; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints any partial lines still buffered.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		r.flushLocked(t)
	}
	return nil
}

// Wait does nothing; the renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned tasks.
func (r *Renderer) OnPlanEmit(tasks []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := fmt.Sprintf("%s %s", style.Arrow, strings.Join(tasks, " "+style.Arrow+" "))
	if len(targets) > 0 && len(targets) != len(tasks) {
		line += fmt.Sprintf(" (requested: %s)", strings.Join(targets, ", "))
	}
	_, _ = fmt.Fprintln(r.stderr, r.out.String(line).Faint().String())
}

// OnTaskStart registers the task and prints a start line.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &task{name: name, started: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s starting\n", r.prefix(name))
}

// OnTaskLog prints the complete lines in data. A trailing partial line is
// kept until more output or the task's completion arrives.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[spanID]
	if !ok {
		return
	}

	t.pending.Write(data)
	for {
		i := bytes.IndexByte(t.pending.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := t.pending.Next(i + 1)
		r.printLocked(t.name, line)
	}
}

// OnTaskComplete flushes the task's output and prints its outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[spanID]
	if !ok {
		return
	}
	r.flushLocked(t)
	delete(r.tasks, spanID)

	elapsed := endTime.Sub(t.started).Round(time.Millisecond)
	if err != nil {
		icon := r.out.String(style.Cross).Foreground(r.out.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", r.prefix(t.name), icon, elapsed, err)
		return
	}
	icon := r.out.String(style.Check).Foreground(r.out.Color(string(style.Green))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", r.prefix(t.name), icon, elapsed)
}

func (r *Renderer) prefix(name string) string {
	return r.out.String("[" + name + "]").Faint().String()
}

// flushLocked must be called with mu held.
func (r *Renderer) flushLocked(t *task) {
	if t.pending.Len() > 0 {
		r.printLocked(t.name, t.pending.Bytes())
		t.pending.Reset()
	}
}

// printLocked must be called with mu held.
func (r *Renderer) printLocked(name string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
