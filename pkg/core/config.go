// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds ubrew configuration
type Config struct {
	Prefix       string            `yaml:"prefix"`
	CachePath    string            `yaml:"cache_path"`
	Debug        bool              `yaml:"debug"`
	Progress     bool              `yaml:"progress"`
	Interpreters map[string]string `yaml:"interpreters"` // runtime name -> executable
	Dependencies map[string]string `yaml:"dependencies"` // dependency name -> install prefix
	Installed    []string          `yaml:"installed"`    // formulae already installed
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Prefix:       getDefaultPrefix(),
		CachePath:    getDefaultCachePath(),
		Debug:        false,
		Progress:     true,
		Interpreters: make(map[string]string),
		Dependencies: make(map[string]string),
	}
}

// DefaultConfigPath returns $HOME/.config/ubrew/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ubrew", "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// UBREW_PREFIX beats the file
	if p := os.Getenv("UBREW_PREFIX"); p != "" {
		cfg.Prefix = p
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// IsInstalled reports whether a formula is recorded as installed
func (c *Config) IsInstalled(name string) bool {
	for _, n := range c.Installed {
		if n == name {
			return true
		}
	}
	return false
}

// DependencyPrefix returns the configured install prefix of a dependency
func (c *Config) DependencyPrefix(name string) (string, bool) {
	p, ok := c.Dependencies[name]
	return p, ok && p != ""
}

func getDefaultPrefix() string {
	if path := os.Getenv("UBREW_PREFIX"); path != "" {
		return path
	}
	return "/usr/local"
}

func getDefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "ubrew")
	}
	return filepath.Join(home, ".cache", "ubrew")
}
