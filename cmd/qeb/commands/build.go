package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/qeb/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the query engine bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _ := cmd.Flags().GetString("root")
			verbose, _ := cmd.Flags().GetBool("verbose")
			_, err := c.app.Build(cmd.Context(), app.BuildOptions{
				Root:    root,
				Verbose: verbose,
			})
			return err
		},
	}
	cmd.Flags().StringP("root", "r", "", "Site root holding the schema snapshot (defaults to the working directory)")
	cmd.Flags().BoolP("verbose", "v", false, "Report relocated assets and warnings")
	return cmd
}
