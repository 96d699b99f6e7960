// Package config loads the corbaserver configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/solver"
)

// DefaultPort is the IIOP port the corbaserver listens on by default
const DefaultPort = 13331

// Config holds the corbaserver settings
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	Planner struct {
		MaxIterations  int     `yaml:"maxIterations"`
		ValidationStep float64 `yaml:"validationStep"`
		Seed           int64   `yaml:"seed"`
	} `yaml:"planner"`

	Plugins []string `yaml:"plugins"`

	Bench struct {
		Database string `yaml:"database"`
	} `yaml:"bench"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Host: "127.0.0.1",
		Port: DefaultPort,
	}
	cfg.Log.Level = "info"
	cfg.Planner.MaxIterations = solver.DefaultMaxIterations
	cfg.Planner.ValidationStep = solver.DefaultValidationStep
	cfg.Planner.Seed = 1
	cfg.Bench.Database = "hpp-bench.db"
	return cfg
}

// Load reads a configuration file over the defaults. An empty path falls
// back to the user configuration directory; a missing file there is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = userConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the per-user config location, honoring
// XDG_CONFIG_HOME
func userConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hpp", "corbaserver.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hpp", "corbaserver.yaml")
}

// validate rejects settings the server cannot start with
func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Planner.MaxIterations <= 0 {
		return fmt.Errorf("maxIterations must be positive, got %d", c.Planner.MaxIterations)
	}
	if c.Planner.ValidationStep <= 0 {
		return fmt.Errorf("validationStep must be positive, got %g", c.Planner.ValidationStep)
	}
	return nil
}
