// Package detector picks the progress renderer for the current terminal.
package detector

import (
	"os"

	"go.trai.ch/assetpipe/internal/core/domain"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for a run.
type OutputMode int

const (
	// ModeAuto defers to DetectEnvironment.
	ModeAuto OutputMode = iota
	// ModeTUI selects the interactive task view.
	ModeTUI
	// ModeLinear selects prefixed line output.
	ModeLinear
)

// DetectEnvironment returns ModeTUI when f is an interactive terminal outside
// CI, ModeLinear otherwise. A dumb terminal cannot redraw and counts as linear.
func DetectEnvironment(f *os.File) OutputMode {
	if f == nil || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // Fd fits in int on supported platforms
		return ModeLinear
	}

	switch os.Getenv("CI") {
	case "true", "1":
		return ModeLinear
	}
	if os.Getenv("TERM") == "dumb" {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the --output-mode flag to the detected mode.
// "ci" is accepted as an alias for linear; unknown values keep the detected mode.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case domain.OutputTUI:
		return ModeTUI
	case domain.OutputLinear, "ci":
		return ModeLinear
	default:
		return detected
	}
}
