package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/noverdy/ispcli/internal/buildinfo"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(os.Stdout)
		},
	}
}
