package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped via ldflags at release time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hatchctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hatchctl %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
