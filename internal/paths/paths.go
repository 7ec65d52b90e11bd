// Package paths resolves the configuration directory and the ADJ root.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppDirName is the directory under the platform config location.
const AppDirName = "adj-valet"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ADJVALET_CONFIG_DIR"
	EnvADJPath   = "ADJVALET_ADJ_PATH"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/adj-valet (fallback ~/.config/adj-valet)
// macOS:   ~/Library/Application Support/adj-valet
// Windows: %APPDATA%/adj-valet
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppDirName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > ADJVALET_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return absolute(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return absolute(env)
	}
	return DefaultConfigDir()
}

// ResolveADJDir returns the ADJ root following the precedence chain:
// flag > configYAMLValue > ADJVALET_ADJ_PATH env. It returns "" when none
// is set; the root can then be chosen later through the API.
func ResolveADJDir(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue, os.Getenv(EnvADJPath)} {
		if v != "" {
			return absolute(v)
		}
	}
	return "", nil
}

// absolute expands a leading ~ and makes p absolute.
func absolute(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
