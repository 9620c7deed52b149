// Package config provides configuration loading for dcx-dumper.
//
// Configuration is loaded from a single YAML file named by the --config
// flag or the DCX_DUMPER_CONFIG environment variable. Without either,
// Default() is used as is. Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "DCX_DUMPER_CONFIG"

// Config is the top-level configuration.
type Config struct {
	// Oodle configures the native Kraken runtime.
	Oodle OodleConfig `yaml:"oodle"`

	// Extract configures batch extraction.
	Extract ExtractConfig `yaml:"extract"`

	// Cache configures the decoded-payload cache.
	Cache CacheConfig `yaml:"cache"`

	// HTTP configures remote inputs.
	HTTP HTTPConfig `yaml:"http"`

	Log LogConfig `yaml:"log"`
}

// OodleConfig configures Oodle runtime discovery.
type OodleConfig struct {
	// SearchDirs are searched before the executable's directory.
	SearchDirs []string `yaml:"search_dirs,omitempty"`

	// LibraryNames overrides the file names tried per revision (6 or 8).
	// Default: the platform names of oo2core_6 and oo2core_8.
	LibraryNames map[int][]string `yaml:"library_names,omitempty"`

	// Level, when non-zero, is the only Kraken level accepted in headers.
	// Default: 0 (levels 6 and 9)
	Level uint8 `yaml:"level"`
}

// ExtractConfig configures batch extraction.
type ExtractConfig struct {
	// Workers is the number of concurrent decoders. 0 means NumCPU.
	Workers int `yaml:"workers"`

	// Strategy is "sequential" or "adaptive".
	// Default: adaptive
	Strategy string `yaml:"strategy"`

	// MaxBufferMB bounds the read-buffer pool.
	// Default: 512
	MaxBufferMB int `yaml:"max_buffer_mb"`

	// Suffixes are stripped from input names to form output names.
	// Default: [".dcx"]
	Suffixes []string `yaml:"suffixes"`

	// Strict aborts the whole batch on the first failing file.
	Strict bool `yaml:"strict"`
}

// CacheConfig configures the decoded-payload cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty disables caching.
	Dir string `yaml:"dir"`

	// Codec is "zstd", "lz4", "xz" or "none".
	// Default: zstd
	Codec string `yaml:"codec"`
}

// HTTPConfig configures remote inputs.
type HTTPConfig struct {
	UserAgent string `yaml:"user_agent"`

	// TimeoutSeconds bounds each HTTP request. 0 disables the limit.
	// Default: 60
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LogConfig configures the default slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Strategy:    "adaptive",
			MaxBufferMB: 512,
			Suffixes:    []string{".dcx"},
		},
		Cache: CacheConfig{
			Codec: "zstd",
		},
		HTTP: HTTPConfig{
			UserAgent:      "dcx-dumper",
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the file named by DCX_DUMPER_CONFIG, or returns Default()
// when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, merged over Default().
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expandPaths expands environment variables and a leading ~ in path fields.
func (c *Config) expandPaths() {
	for i, dir := range c.Oodle.SearchDirs {
		c.Oodle.SearchDirs[i] = expandPath(dir)
	}
	c.Cache.Dir = expandPath(c.Cache.Dir)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Oodle.Level {
	case 0, 6, 9:
	default:
		errs = append(errs, fmt.Errorf("oodle.level must be 0, 6 or 9, got %d", c.Oodle.Level))
	}
	for rev := range c.Oodle.LibraryNames {
		if rev != 6 && rev != 8 {
			errs = append(errs, fmt.Errorf("oodle.library_names: unknown revision %d", rev))
		}
	}

	switch c.Extract.Strategy {
	case "sequential", "adaptive":
	default:
		errs = append(errs, fmt.Errorf("extract.strategy must be sequential or adaptive, got %q", c.Extract.Strategy))
	}
	if c.Extract.Workers < 0 {
		errs = append(errs, fmt.Errorf("extract.workers must not be negative"))
	}
	if c.Extract.MaxBufferMB <= 0 {
		errs = append(errs, fmt.Errorf("extract.max_buffer_mb must be positive"))
	}

	switch c.Cache.Codec {
	case "zstd", "lz4", "xz", "none":
	default:
		errs = append(errs, fmt.Errorf("cache.codec must be zstd, lz4, xz or none, got %q", c.Cache.Codec))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if c.HTTP.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("http.timeout_seconds must not be negative"))
	}

	return errors.Join(errs...)
}
