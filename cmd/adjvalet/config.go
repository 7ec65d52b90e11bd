// Config loading for the adjvalet CLI.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/adjvalet/internal/logging"
	"github.com/mesh-intelligence/adjvalet/internal/portfile"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "ADJVALET"

	cfgKeyHost            = "host"
	cfgKeyPort            = "port"
	cfgKeyADJPath         = "adj_path"
	cfgKeyLogLevel        = "log.level"
	cfgKeyLogFormat       = "log.format"
	cfgKeyWatch           = "watch"
	cfgKeyNATSURL         = "nats_url"
	cfgKeyPortFile        = "port_file"
	cfgKeyMaxPortAttempts = "max_port_attempts"

	defaultHost            = "0.0.0.0"
	defaultPort            = 8000
	defaultMaxPortAttempts = 100
)

const configHeader = `# adj-valet configuration
# Every key can be overridden with an ADJVALET_ environment variable,
# e.g. ADJVALET_PORT=9000 or ADJVALET_LOG_LEVEL=debug.

`

// Settings is the decoded config.yaml.
type Settings struct {
	Host            string         `mapstructure:"host" yaml:"host"`
	Port            uint16         `mapstructure:"port" yaml:"port"`
	ADJPath         string         `mapstructure:"adj_path" yaml:"adj_path"`
	Log             logging.Config `mapstructure:"log" yaml:"log"`
	Watch           bool           `mapstructure:"watch" yaml:"watch"`
	NATSURL         string         `mapstructure:"nats_url" yaml:"nats_url"`
	PortFile        string         `mapstructure:"port_file" yaml:"port_file"`
	MaxPortAttempts int            `mapstructure:"max_port_attempts" yaml:"max_port_attempts"`
}

// DefaultSettings returns the values written to a fresh config.yaml.
func DefaultSettings() Settings {
	return Settings{
		Host:            defaultHost,
		Port:            defaultPort,
		Log:             logging.DefaultConfig(),
		PortFile:        portfile.DefaultName,
		MaxPortAttempts: defaultMaxPortAttempts,
	}
}

// loadConfig reads config.yaml from the resolved config directory using Viper
// and decodes it into settings. It creates the config directory and a default
// config.yaml on first run. A missing config.yaml is not an error.
//
// ADJVALET_ environment variables override every key except adj_path, whose
// env fallback is applied by resolveADJDir below the config file. fileSettings
// receives the same values without any environment override.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Viper consults the environment only once AutomaticEnv is on.
	fileSettings = Settings{}
	if err := v.Unmarshal(&fileSettings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	v.AutomaticEnv()
	settings = Settings{}
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	settings.ADJPath = fileSettings.ADJPath
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault(cfgKeyHost, d.Host)
	v.SetDefault(cfgKeyPort, d.Port)
	v.SetDefault(cfgKeyADJPath, "")
	v.SetDefault(cfgKeyLogLevel, d.Log.Level)
	v.SetDefault(cfgKeyLogFormat, d.Log.Format)
	v.SetDefault(cfgKeyWatch, d.Watch)
	v.SetDefault(cfgKeyNATSURL, d.NATSURL)
	v.SetDefault(cfgKeyPortFile, d.PortFile)
	v.SetDefault(cfgKeyMaxPortAttempts, d.MaxPortAttempts)
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return writeConfigFile(path, DefaultSettings())
}

// writeConfigFile renders s as YAML below the header comment.
func writeConfigFile(path string, s Settings) error {
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
