package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memfs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// Uses 31 bits (2^31 - 1 = 2,147,483,647) so handles always fit a signed
	// 32-bit descriptor.
	DefaultMaxFH = (1 << 31) - 1

	// DefaultLogLvl is the log level used when none is configured
	DefaultLogLvl = util.InfoLevel

	// DefaultName is the mount name reported in logs and stat output
	DefaultName = "memfs"
)

// Config contains runtime configuration values for a mounted namespace.
type Config struct {
	Name   string        // Mount name used in logs (Default "memfs")
	LogLvl util.LogLevel // Log level (Default info)
	MaxFH  int           // Highest file descriptor value handed out (Default 2147483647)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	Name *string `yaml:"name,omitempty" json:"name,omitempty"`
	// LogLvl is a CLI style verbosity between 1 (error) and 5 (trace)
	LogLvl *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	MaxFH  *int `yaml:"max_fh,omitempty" json:"max_fh,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		Name:   DefaultName,
		LogLvl: DefaultLogLvl,
		MaxFH:  DefaultMaxFH,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.MaxFH != nil {
		c.MaxFH = *override.MaxFH
	}
}

// Validate reports configuration values the filesystem cannot run with
func (c *Config) Validate() error {
	if c.MaxFH < 1 {
		return fmt.Errorf("max_fh must be at least 1, got %d", c.MaxFH)
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
