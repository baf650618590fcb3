package app

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/assetpipe/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/linear"   //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/tui"      //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// RendererFactory builds the progress renderer for one run.
type RendererFactory func(opts domain.Options) ports.Renderer

// interruptible is implemented by renderers that own the keyboard.
type interruptible interface {
	OnInterrupt(fn func())
}

// TerminalRenderers returns the task view when stderr is an interactive
// terminal and linear output otherwise. opts.OutputMode overrides detection.
func TerminalRenderers(opts domain.Options) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(os.Stderr), opts.OutputMode)
	if mode == detector.ModeTUI {
		return tui.NewRenderer(tui.NewModel(os.Stderr), tea.WithOutput(os.Stderr))
	}
	return linear.NewRenderer(os.Stdout, os.Stderr)
}
