package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/cmd/opusstream/internal/build"
	"github.com/haivivi/opusstream/pkg/cli"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFormat == "" {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
			return nil
		}
		return cli.Output(build.Get(), cli.OutputOptions{
			Format: cli.OutputFormat(versionFormat),
			Writer: cmd.OutOrStdout(),
		})
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "", "output format: yaml or json")
	rootCmd.AddCommand(versionCmd)
}
