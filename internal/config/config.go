// Package config handles application configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"todo/internal/utils"
)

// FileName is the config file looked up in the installation directory
const FileName = "config.yaml"

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Config represents the application configuration
type Config struct {
	Store    string        `yaml:"store"`
	DataPath string        `yaml:"data_path"`
	Color    string        `yaml:"color"`
	Strict   bool          `yaml:"strict"`
	Logging  LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: utils.StoreJSON,
		Color: utils.ColorAuto,
	}
}

// Load loads configuration from configPath, or from config.yaml in the
// installation directory if empty. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = filepath.Join(GetInstallDir(), FileName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Relative data paths are relative to the config file
	if cfg.DataPath != "" {
		cfg.DataPath = ExpandPath(cfg.DataPath)
		if !filepath.IsAbs(cfg.DataPath) {
			cfg.DataPath = filepath.Join(filepath.Dir(configPath), cfg.DataPath)
		}
	}

	return cfg, nil
}

// Parse decodes YAML config bytes and applies defaults for unset fields
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, utils.WrapWithSuggestion(
			fmt.Errorf("invalid YAML in config file: %w", err),
			"Fix the syntax or delete the config file to use the defaults",
		)
	}

	if cfg.Store == "" {
		cfg.Store = utils.StoreJSON
	}
	if cfg.Color == "" {
		cfg.Color = utils.ColorAuto
	}
	cfg.Store = strings.ToLower(cfg.Store)
	cfg.Color = strings.ToLower(cfg.Color)

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := utils.ValidateStore(c.Store); err != nil {
		return err
	}
	return utils.ValidateColorMode(c.Color)
}

// ApplyFlags applies CLI flag overrides to the configuration.
// Empty strings and false leave the file values in place.
func (c *Config) ApplyFlags(store, dataPath, color string, verbose, strict bool) {
	if store != "" {
		c.Store = strings.ToLower(store)
	}
	if dataPath != "" {
		c.DataPath = ExpandPath(dataPath)
	}
	if color != "" {
		c.Color = strings.ToLower(color)
	}
	if verbose {
		c.Logging.Verbose = true
	}
	if strict {
		c.Strict = true
	}
}

// GetDataPath returns the data file location for the configured store
func (c *Config) GetDataPath(defaultName string) string {
	if c.DataPath != "" {
		return c.DataPath
	}
	return filepath.Join(GetInstallDir(), defaultName)
}

// GetInstallDir returns the directory that holds the running executable,
// with symlinks resolved. Falls back to the working directory.
func GetInstallDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
