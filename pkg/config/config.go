// Package config loads, defaults and validates the application
// configuration, and builds configured backends from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete treepack configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (TREEPACK_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
//
// Store Configuration Pattern:
// Each content store backend defines its own configuration shape. The
// Content section carries one map per backend and only the section matching
// the selected type is decoded, so unknown backends never block loading.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Pack contains part streaming settings
	Pack PackConfig `mapstructure:"pack"`

	// Content specifies the content store type and type-specific
	// configuration
	Content ContentConfig `mapstructure:"content"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// PackConfig contains part streaming settings.
type PackConfig struct {
	// PartSize is the maximum bytes per content part. Every part except
	// the final one is exactly this size.
	PartSize uint64 `mapstructure:"part_size" validate:"required,gt=0"`
}

// ContentConfig specifies content store configuration.
//
// The Type field determines which backend is used. Only the corresponding
// type-specific section is decoded.
type ContentConfig struct {
	// Type specifies which content store backend to use
	// Valid values: memory, filesystem, s3, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory filesystem s3 badger"`

	// Memory contains memory-specific configuration
	Memory map[string]any `mapstructure:"memory"`

	// Filesystem contains filesystem-specific configuration
	Filesystem map[string]any `mapstructure:"filesystem"`

	// S3 contains S3-specific configuration
	S3 map[string]any `mapstructure:"s3"`

	// Badger contains BadgerDB-specific configuration
	Badger map[string]any `mapstructure:"badger"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file
// settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the TREEPACK_ prefix with underscores,
	// e.g. TREEPACK_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("TREEPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/treepack/config.{yaml,toml}
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config file is fine, defaults apply
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "treepack")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "treepack")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
