package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Correction.MaxIterations)
	assert.Equal(t, 0.5, cfg.Correction.MinScore)
	assert.Equal(t, 4, cfg.Correction.TabWidth)
	assert.Equal(t, 1, cfg.Correction.GapTolerance)
	assert.Equal(t, 40, cfg.Correction.PadSanityLimit)
	assert.False(t, cfg.Correction.IncludeLowConfidence)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxmend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
correction:
  max_iterations: 3
  min_score: 0.8
  include_low_confidence: true
output:
  color: never
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Correction.MaxIterations)
	assert.Equal(t, 0.8, cfg.Correction.MinScore)
	assert.True(t, cfg.Correction.IncludeLowConfidence)
	assert.Equal(t, "never", cfg.Output.Color)
	// Untouched settings keep their defaults.
	assert.Equal(t, 4, cfg.Correction.TabWidth)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("correction: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BOXMEND_MAX_ITERATIONS", "7")
	t.Setenv("BOXMEND_MIN_SCORE", "0.9")
	t.Setenv("BOXMEND_TAB_WIDTH", "8")
	t.Setenv("BOXMEND_COLOR", "never")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Correction.MaxIterations)
	assert.Equal(t, 0.9, cfg.Correction.MinScore)
	assert.Equal(t, 8, cfg.Correction.TabWidth)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("BOXMEND_MAX_ITERATIONS", "many")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Correction.MaxIterations)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Correction.MaxIterations = 0 }},
		{"negative score", func(c *Config) { c.Correction.MinScore = -0.1 }},
		{"score above one", func(c *Config) { c.Correction.MinScore = 1.5 }},
		{"zero tab width", func(c *Config) { c.Correction.TabWidth = 0 }},
		{"negative gap", func(c *Config) { c.Correction.GapTolerance = -1 }},
		{"zero sanity limit", func(c *Config) { c.Correction.PadSanityLimit = 0 }},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
