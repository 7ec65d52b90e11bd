// Root command for the adjvalet CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/adj"
	"github.com/mesh-intelligence/adjvalet/internal/logging"
	"github.com/mesh-intelligence/adjvalet/internal/paths"
	"github.com/mesh-intelligence/adjvalet/internal/store"
	"github.com/mesh-intelligence/adjvalet/pkg/adjvalet"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks command-line mistakes that cobra does not catch itself.
var errUsage = errors.New("usage")

// Global flag values.
var (
	flagConfigDir string
	flagADJPath   string
	flagJSON      bool
)

// settings is loaded by PersistentPreRunE for every subcommand. fileSettings
// holds config.yaml and the defaults alone; init writes from it.
var (
	settings     Settings
	fileSettings Settings
)

var rootCmd = &cobra.Command{
	Use:           "adjvalet",
	Short:         "adjvalet manages ADJ board configuration trees",
	Version:       adjvalet.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		_, err = loadConfig(configDir)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir/adj-valet)")
	rootCmd.PersistentFlags().StringVar(&flagADJPath, "adj-path", "", "ADJ directory (overrides adj_path in config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(normalizeCmd)
}

// exactArgs is cobra.ExactArgs with the error marked as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}

// resolveConfigDir returns the configuration directory following the precedence
// --config-dir flag > ADJVALET_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveADJDir returns the ADJ root following the precedence
// --adj-path flag > config.yaml adj_path > ADJVALET_ADJ_PATH env.
func resolveADJDir() (string, error) {
	return paths.ResolveADJDir(flagADJPath, settings.ADJPath)
}

// requireADJDir is resolveADJDir for commands that cannot run without a tree.
func requireADJDir() (string, error) {
	root, err := resolveADJDir()
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", fmt.Errorf("%w: use --adj-path, adj_path in config.yaml or %s", types.ErrNoWorkspace, paths.EnvADJPath)
	}
	return root, nil
}

// newLogger builds the command logger from the loaded settings.
func newLogger() *zap.Logger {
	return logging.Must(settings.Log)
}

// newEngine returns an engine on the host filesystem.
func newEngine(log *zap.Logger) *adj.Engine {
	return adj.New(store.NewOS(), log.Named("adj"))
}
