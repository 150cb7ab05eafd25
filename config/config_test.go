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

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Analyzers.CSS)
	assert.True(t, cfg.Analyzers.JavaScript)
	assert.True(t, cfg.Analyzers.HTML)
	assert.Equal(t, 1024, cfg.Analysis.MaxFileSizeKB)
	assert.Equal(t, 2000, cfg.Analysis.TimeoutMS)
	assert.Contains(t, cfg.Analysis.Exclude, "node_modules")
	require.NoError(t, Validate(cfg))
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := `logger:
  level: debug
analyzers:
  css: true
  javascript: true
  html: false
analysis:
  max_file_size_kb: 256
  timeout_ms: 500
  max_timeout_ms: 5000
  max_concurrency: 2
  exclude:
    - vendor
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.False(t, cfg.Analyzers.HTML)
	assert.Equal(t, 256, cfg.Analysis.MaxFileSizeKB)
	assert.Equal(t, 500, cfg.Analysis.TimeoutMS)
	assert.Equal(t, []string{"vendor"}, cfg.Analysis.Exclude)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadRejectsDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		name   string
		mutate func(*Config)
	}{
		{"all analyzers disabled", func(c *Config) {
			c.Analyzers = Analyzers{}
		}},
		{"non-positive file size", func(c *Config) {
			c.Analysis.MaxFileSizeKB = 0
		}},
		{"non-positive timeout", func(c *Config) {
			c.Analysis.TimeoutMS = -1
		}},
		{"ceiling below base timeout", func(c *Config) {
			c.Analysis.MaxTimeoutMS = c.Analysis.TimeoutMS - 1
		}},
		{"non-positive concurrency", func(c *Config) {
			c.Analysis.MaxConcurrency = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
