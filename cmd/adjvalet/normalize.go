// Normalize command rewrites an ADJ tree in the canonical layout.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite the ADJ directory in the canonical layout",
	Long: `Normalize loads the ADJ directory, skipping unreadable board files,
and saves it back. boards.json is regenerated, every board gets
<name>.json, <name>_measurements.json, packets.json and orders.json as
needed, and stale packet files are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer func() { _ = log.Sync() }()

		engine, root, cfg, err := loadTree(log)
		if err != nil {
			return err
		}
		if err := engine.Save(cfg, root); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), cfg)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Normalized %d boards in %s\n", len(cfg.Boards), root)
		return nil
	},
}
