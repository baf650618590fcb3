package domain

// Options is the raw command line input the configuration resolver consumes.
type Options struct {
	// Production selects the strict, revisioned profile.
	Production bool
	// Revision and SourceMaps override the production-derived toggles when set.
	Revision   *bool
	SourceMaps *bool
	// ManifestPath locates the asset manifest.
	ManifestPath string
	// Host and Port override the dev server bind address when non-zero.
	Host string
	Port int
	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
	// OutputMode selects the progress renderer: auto, tui or linear.
	OutputMode string
}

// Output modes accepted by Options.OutputMode.
const (
	OutputAuto   = "auto"
	OutputTUI    = "tui"
	OutputLinear = "linear"
)
