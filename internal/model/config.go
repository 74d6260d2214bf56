package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete doselog configuration
type Config struct {
	Data       DataConfig          `yaml:"data" mapstructure:"data"`
	Cache      CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Spans      SpanConfig          `yaml:"spans" mapstructure:"spans"`
	Substances []SubstanceConfig   `yaml:"substances" mapstructure:"substances"`
	Groups     map[string][]string `yaml:"groups,omitempty" mapstructure:"groups"` // analysis-time alias folding, group -> members
	Output     OutputConfig        `yaml:"output" mapstructure:"output"`
}

// DataConfig locates the log sources
type DataConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // file or directory of log files
}

// CacheConfig controls the parsed-source cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// SpanConfig holds effect-span policy. Per-substance durations live on the
// substance entries; Fallback applies when no entry specifies one.
type SpanConfig struct {
	Fallback time.Duration `yaml:"fallback" mapstructure:"fallback"`
}

// SubstanceConfig is one registry entry: a canonical name, the alias spellings
// that fold into it, and an optional default effect duration.
type SubstanceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Aliases     []string      `yaml:"aliases,omitempty" mapstructure:"aliases"`
	DefaultSpan time.Duration `yaml:"default_span,omitempty" mapstructure:"default_span"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults. The substance table is a
// starting policy, not pharmacology: durations are heuristics the user is
// expected to override in their config file.
func DefaultConfig() *Config {
	cacheDir := ".doselog-cache"
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(dir, "doselog")
	}

	return &Config{
		Data: DataConfig{},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     cacheDir,
			TTL:     30 * 24 * time.Hour,
		},
		Spans: SpanConfig{
			Fallback: 4 * time.Hour,
		},
		Substances: []SubstanceConfig{
			{Name: "Caffeine", Aliases: []string{"coffee", "espresso"}, DefaultSpan: 5 * time.Hour},
			{Name: "Alcohol", Aliases: []string{"beer", "wine"}, DefaultSpan: 2 * time.Hour},
			{Name: "Melatonin", DefaultSpan: 6 * time.Hour},
		},
		Output: OutputConfig{},
	}
}
