package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the CLI-side configuration. The engine itself receives plain
// option structs; this layer owns file loading and validation.
type Config struct {
	Logger    Logger    `yaml:"logger"`
	Analyzers Analyzers `yaml:"analyzers"`
	Analysis  Analysis  `yaml:"analysis"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Analyzers toggles language families.
type Analyzers struct {
	CSS        bool `yaml:"css"`
	JavaScript bool `yaml:"javascript"`
	HTML       bool `yaml:"html"`
}

// Analysis tunes per-document limits.
type Analysis struct {
	MaxFileSizeKB  int      `yaml:"max_file_size_kb"`
	TimeoutMS      int      `yaml:"timeout_ms"`
	MaxTimeoutMS   int      `yaml:"max_timeout_ms"`
	MaxConcurrency int      `yaml:"max_concurrency"`
	Exclude        []string `yaml:"exclude"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Logger: Logger{Level: "info"},
		Analyzers: Analyzers{
			CSS:        true,
			JavaScript: true,
			HTML:       true,
		},
		Analysis: Analysis{
			MaxFileSizeKB:  1024,
			TimeoutMS:      2000,
			MaxTimeoutMS:   10000,
			MaxConcurrency: 4,
			Exclude:        []string{"node_modules", "dist", "build", ".git"},
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if err := validatePath(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validatePath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// Validate rejects configurations the engine cannot honor.
func Validate(cfg *Config) error {
	if !cfg.Analyzers.CSS && !cfg.Analyzers.JavaScript && !cfg.Analyzers.HTML {
		return fmt.Errorf("all analyzers are disabled")
	}
	if cfg.Analysis.MaxFileSizeKB <= 0 {
		return fmt.Errorf("max_file_size_kb must be positive, got %d", cfg.Analysis.MaxFileSizeKB)
	}
	if cfg.Analysis.TimeoutMS <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", cfg.Analysis.TimeoutMS)
	}
	if cfg.Analysis.MaxTimeoutMS < cfg.Analysis.TimeoutMS {
		return fmt.Errorf("max_timeout_ms (%d) must be at least timeout_ms (%d)",
			cfg.Analysis.MaxTimeoutMS, cfg.Analysis.TimeoutMS)
	}
	if cfg.Analysis.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", cfg.Analysis.MaxConcurrency)
	}
	return nil
}
