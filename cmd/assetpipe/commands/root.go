// Package commands implements the CLI commands for the assetpipe build tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.trai.ch/assetpipe/internal/build"
	"go.trai.ch/assetpipe/internal/core/domain"
)

// EnvPrefix prefixes the environment variables mirroring the flags.
const EnvPrefix = "ASSETPIPE"

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targetNames []string, opts domain.Options) error
	Watch(ctx context.Context, opts domain.Options) error
	Clean(ctx context.Context, opts domain.Options) error
}

// CLI represents the command line interface for assetpipe.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	v       *viper.Viper
	onJSON  func(bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "assetpipe",
		Short:         "Build templates and stylesheets for a static site theme",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.Bool("production", false, "Revision outputs, skip source maps and fail on the first error")
	flags.String("manifest", domain.DefaultManifestPath, "Path to the asset manifest")
	flags.Bool("rev", false, "Append content hashes to output names (default: --production)")
	flags.Bool("maps", false, "Emit stylesheet source maps (default: not --production)")
	flags.Bool("json-logs", false, "Write logs as JSON")
	flags.StringP("output-mode", "o", domain.OutputAuto, "Output mode: auto, tui, or linear")
	flags.Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
		v:       v,
	}

	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if c.onJSON != nil {
			c.onJSON(c.v.GetBool("json-logs"))
		}
	}

	rootCmd.AddCommand(
		c.newTaskCmd(domain.TaskTemplates, "Compile templates into layouts", "pug"),
		c.newTaskCmd(domain.TaskStyles, "Build stylesheet bundles"),
		c.newTaskCmd(domain.TaskBuild, "Build stylesheets, then templates", "styles:watch"),
		c.newTaskCmd(domain.TaskWiredep, "Point vendor references in layouts at local copies"),
		c.newRunCmd(),
		c.newWatchCmd(),
		c.newCleanCmd(),
		c.newVersionCmd(),
	)

	return c
}

// OnJSONLogs registers a hook receiving the resolved --json-logs value
// before any command runs.
func (c *CLI) OnJSONLogs(fn func(bool)) {
	c.onJSON = fn
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options resolves the run options from flags and the environment.
func (c *CLI) options() domain.Options {
	return domain.Options{
		Production:   c.v.GetBool("production"),
		Revision:     c.optionalBool("rev"),
		SourceMaps:   c.optionalBool("maps"),
		ManifestPath: c.v.GetString("manifest"),
		Host:         c.v.GetString("host"),
		Port:         c.v.GetInt("port"),
		JSONLogs:     c.v.GetBool("json-logs"),
		OutputMode:   c.outputMode(),
	}
}

func (c *CLI) outputMode() string {
	if c.v.GetBool("ci") {
		return domain.OutputLinear
	}
	return c.v.GetString("output-mode")
}

// optionalBool returns nil unless the flag was given or its variable is set.
func (c *CLI) optionalBool(key string) *bool {
	f := c.rootCmd.PersistentFlags().Lookup(key)
	_, inEnv := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
	if (f == nil || !f.Changed) && !inEnv {
		return nil
	}
	v := c.v.GetBool(key)
	return &v
}
