package config

import "strings"

// DefaultPartSize is the part size used when none is configured: 4 MiB.
const DefaultPartSize uint64 = 4 * 1024 * 1024

// ApplyDefaults sets default values for any unspecified configuration
// fields.
//
// Zero values (0, "", nil) are replaced with defaults; explicit values are
// preserved. Store-specific defaults live alongside the section they fill.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyPackDefaults(&cfg.Pack)
	applyContentDefaults(&cfg.Content)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Uppercase internally so comparisons stay simple
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyPackDefaults sets part streaming defaults.
func applyPackDefaults(cfg *PackConfig) {
	if cfg.PartSize == 0 {
		cfg.PartSize = DefaultPartSize
	}
}

// applyContentDefaults sets content store defaults.
func applyContentDefaults(cfg *ContentConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}

	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}
	if cfg.Filesystem == nil {
		cfg.Filesystem = make(map[string]any)
	}
	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}

	if _, ok := cfg.Filesystem["path"]; !ok {
		cfg.Filesystem["path"] = "/tmp/treepack-content"
	}
	if _, ok := cfg.Badger["path"]; !ok {
		cfg.Badger["path"] = "/tmp/treepack-badger"
	}
}
