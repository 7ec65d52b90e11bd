// Rename command renames a board on disk and in its manifest.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a board",
	Long: `Rename moves boards/<old>/ to boards/<new>/, renames the board's
manifest and measurements file, updates boards.json and saves the
configuration. Packet names that mention the old board are not changed.`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldName, newName := args[0], args[1]

		log := newLogger()
		defer func() { _ = log.Sync() }()

		engine, root, cfg, err := loadTree(log)
		if err != nil {
			return err
		}
		if _, err := engine.Rename(cfg, oldName, newName, root); err != nil {
			return err
		}
		if err := engine.Save(cfg, root); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), cfg)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", oldName, newName)
		return nil
	},
}
