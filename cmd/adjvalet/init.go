// Init command writes config.yaml into the configuration directory.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml",
	Long: `Init writes config.yaml into the configuration directory. An existing
file is kept unless --force is given. With --adj-path the ADJ directory
is recorded as adj_path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		path := filepath.Join(configDir, configFileExt)

		// loadConfig already created a default file on first run; --force or
		// --adj-path rewrite it.
		if flagForce || flagADJPath != "" {
			s := fileSettings
			if flagForce {
				s = DefaultSettings()
			}
			if flagADJPath != "" {
				root, err := resolveADJDir()
				if err != nil {
					return err
				}
				s.ADJPath = root
			}
			if err := writeConfigFile(path, s); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "adjvalet initialized")
		fmt.Fprintln(cmd.OutOrStdout(), "  config:", path)
		if settings.ADJPath != "" || flagADJPath != "" {
			root, _ := resolveADJDir()
			fmt.Fprintln(cmd.OutOrStdout(), "  adj:   ", root)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "overwrite an existing config.yaml with defaults")
}
