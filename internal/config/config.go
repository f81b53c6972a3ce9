// Package config loads the harness configuration from YAML, with environment
// overrides for API credentials.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	Evaluation      EvaluationConfig          `yaml:"evaluation"`
	Storage         StorageConfig             `yaml:"storage"`
	Server          ServerConfig              `yaml:"server"`
	Logging         LoggingConfig             `yaml:"logging"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	// Benchmarks to run when none are named on the command line.
	Benchmarks []string `yaml:"benchmarks,omitempty"`
	BatchSize  int      `yaml:"batch_size,omitempty"`
	// Iterations of batch scoring per benchmark; 0 derives it from the
	// batch size so roughly 100 examples are scored.
	Iterations int `yaml:"iterations,omitempty"`
	SampleSize int `yaml:"sample_size,omitempty"`
	// Comparison: "restricted" (default) or "full".
	Comparison string `yaml:"comparison,omitempty"`
	// Outcome: "discrete" (default) or "continuous".
	Outcome string `yaml:"outcome,omitempty"`
	// NoChoiceSpace drops the leading space before choice letters when
	// deriving answer tokens.
	NoChoiceSpace bool `yaml:"no_choice_space,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
	Format string `yaml:"format,omitempty"` // console|json
}

// Load reads the config file, falling back to defaults when path is empty.
// API keys from the environment override file values.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(c.DefaultProvider) == "" {
		c.DefaultProvider = "claude"
	}
	if len(c.Evaluation.Benchmarks) == 0 {
		c.Evaluation.Benchmarks = []string{"mmlu"}
	}
	if c.Evaluation.BatchSize <= 0 {
		c.Evaluation.BatchSize = 10
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8080"
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := c.Providers["claude"]
		p.APIKey = v
		c.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := c.Providers["claude"]
		p.APIKey = v
		c.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := c.Providers["openai"]
		p.APIKey = v
		c.Providers["openai"] = p
	}
}
