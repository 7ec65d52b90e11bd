// Version command for the adjvalet CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/adjvalet/pkg/adjvalet"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the adjvalet version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "adjvalet", adjvalet.Version)
	},
}
