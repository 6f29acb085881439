package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the reviewdash configuration file
const ConfigFileName = "config.yaml"

// AppDirName is the directory under the user config dir holding reviewdash files
const AppDirName = "reviewdash"

// Config holds all reviewdash configuration
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Histogram HistogramConfig `yaml:"histogram"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig says where the dataset comes from
type DataConfig struct {
	Source  string        `yaml:"source"`
	Timeout time.Duration `yaml:"timeout"`
}

// HistogramConfig holds rating histogram defaults
type HistogramConfig struct {
	Bins int `yaml:"bins"`
}

// FallbackConfig controls the synthetic dataset used when no data loads
type FallbackConfig struct {
	Seed uint64 `yaml:"seed"`
}

// StoreConfig locates the SQLite database
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	File string `yaml:"file"`
}

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultPath returns ~/.config/reviewdash/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName, ConfigFileName), nil
}

// Load reads config from path, or from DefaultPath when path is empty.
// A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}
	return LoadFromPath(path)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if cfg.Histogram.Bins < 1 || cfg.Histogram.Bins > 50 {
		return fmt.Errorf("%w: histogram.bins must be between 1 and 50, got %d",
			ErrInvalidConfig, cfg.Histogram.Bins)
	}

	if cfg.Data.Timeout <= 0 {
		return fmt.Errorf("%w: data.timeout must be positive, got %s",
			ErrInvalidConfig, cfg.Data.Timeout)
	}

	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# reviewdash configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
