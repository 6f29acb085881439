package config

import "time"

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Timeout: 10 * time.Second,
		},
		Histogram: HistogramConfig{
			Bins: 10,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
func Merge(loaded, defaults *Config) *Config {
	result := *defaults

	if loaded.Data.Source != "" {
		result.Data.Source = loaded.Data.Source
	}
	if loaded.Data.Timeout != 0 {
		result.Data.Timeout = loaded.Data.Timeout
	}
	if loaded.Histogram.Bins != 0 {
		result.Histogram.Bins = loaded.Histogram.Bins
	}
	if loaded.Fallback.Seed != 0 {
		result.Fallback.Seed = loaded.Fallback.Seed
	}
	if loaded.Store.Path != "" {
		result.Store.Path = loaded.Store.Path
	}
	if loaded.Log.File != "" {
		result.Log.File = loaded.Log.File
	}

	return &result
}
