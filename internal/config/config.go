// Package config holds all boxmend configuration: defaults, optional YAML
// file loading, environment overrides, and validation.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all boxmend configuration.
type Config struct {
	// Correction tunes the diagram-correction engine.
	Correction Correction `yaml:"correction"`

	// Output controls what the CLI prints around the corrected text.
	Output Output `yaml:"output"`
}

// Correction configures the correction engine.
type Correction struct {
	// MaxIterations bounds the per-block correction loop.
	MaxIterations int `yaml:"max_iterations"`
	// MinScore is the threshold a revision must reach to be applied.
	MinScore float64 `yaml:"min_score"`
	// TabWidth drives tab expansion before analysis.
	TabWidth int `yaml:"tab_width"`
	// IncludeLowConfidence corrects every candidate block, not just the
	// confident ones.
	IncludeLowConfidence bool `yaml:"include_low_confidence"`
	// GapTolerance is how many blank lines a diagram block may contain.
	GapTolerance int `yaml:"gap_tolerance"`
	// PadSanityLimit caps the spaces a single padding revision may insert.
	PadSanityLimit int `yaml:"pad_sanity_limit"`
}

// Output configures CLI presentation.
type Output struct {
	// Verbose prints per-block progress and a run summary.
	Verbose bool `yaml:"verbose"`
	// Color is "auto", "always", or "never".
	Color string `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Correction: Correction{
			MaxIterations:  10,
			MinScore:       0.5,
			TabWidth:       4,
			GapTolerance:   1,
			PadSanityLimit: 40,
		},
		Output: Output{
			Color: "auto",
		},
	}
}

// Load reads a YAML config file over the defaults and applies environment
// overrides. A missing file is not an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides select settings from BOXMEND_* variables so CI
// pipelines can tune behavior without a config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("BOXMEND_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Correction.MaxIterations = n
		}
	}
	if v := os.Getenv("BOXMEND_MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Correction.MinScore = f
		}
	}
	if v := os.Getenv("BOXMEND_TAB_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Correction.TabWidth = n
		}
	}
	if v := os.Getenv("BOXMEND_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// Validate rejects settings the engine cannot honor.
func (c *Config) Validate() error {
	if c.Correction.MaxIterations <= 0 {
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.Correction.MaxIterations)
	}
	if c.Correction.MinScore < 0 || c.Correction.MinScore > 1 {
		return fmt.Errorf("config: min_score must be in [0,1], got %g", c.Correction.MinScore)
	}
	if c.Correction.TabWidth <= 0 {
		return fmt.Errorf("config: tab_width must be positive, got %d", c.Correction.TabWidth)
	}
	if c.Correction.GapTolerance < 0 {
		return fmt.Errorf("config: gap_tolerance must not be negative, got %d", c.Correction.GapTolerance)
	}
	if c.Correction.PadSanityLimit <= 0 {
		return fmt.Errorf("config: pad_sanity_limit must be positive, got %d", c.Correction.PadSanityLimit)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always, or never, got %q", c.Output.Color)
	}
	return nil
}
