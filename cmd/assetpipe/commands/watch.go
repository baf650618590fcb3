package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Serve the site with live reload and rebuild on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), c.options())
		},
	}
	cmd.Flags().String("host", "", "Host to bind (default: from the manifest's devUrl)")
	cmd.Flags().Int("port", 0, "Port to bind (default: 8100)")
	_ = c.v.BindPFlag("host", cmd.Flags().Lookup("host"))
	_ = c.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}
