package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for scriptscan.
type Config struct {
	Scan    ScanConfig    `yaml:"scan" toml:"scan"`
	Cache   CacheConfig   `yaml:"cache" toml:"cache"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ScanConfig controls which files are scanned and how.
type ScanConfig struct {
	Includes  []string `yaml:"includes" toml:"includes"`
	Excludes  []string `yaml:"excludes" toml:"excludes"`
	Directive string   `yaml:"directive" toml:"directive"` // header keyword naming a dependency, e.g. "using"
}

// CacheConfig controls report caching.
type CacheConfig struct {
	Enabled       bool `yaml:"enabled" toml:"enabled"`
	MemoryEntries int  `yaml:"memory_entries" toml:"memory_entries"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format   string `yaml:"format" toml:"format"` // "table", "json", "yaml"
	Progress bool   `yaml:"progress" toml:"progress"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Includes:  []string{"**/*.js", "**/*.mjs", "**/*.css", "**/*.less", "**/*.ts"},
			Excludes:  []string{"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**", "**/.scriptscan/**"},
			Directive: "using",
		},
		Cache: CacheConfig{
			Enabled:       true,
			MemoryEntries: 256,
		},
		Output: OutputConfig{
			Format:   "table",
			Progress: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML or TOML file, picked by extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"scriptscan.yaml", "scriptscan.yml", "scriptscan.toml", filepath.Join(".scriptscan", "config.yaml")} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

// Save saves configuration to a YAML or TOML file, picked by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the report cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, ".scriptscan", "cache.db")
}

// EnsureDataDir ensures the .scriptscan directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".scriptscan"), 0755)
}
