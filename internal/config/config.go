// Package config loads taskpilot configuration from a YAML file with
// environment-variable expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/gateway"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/tracker/linear"
)

// Config represents the main configuration
type Config struct {
	Version string                `yaml:"version"`
	Gateway *gateway.Config       `yaml:"gateway"`
	LLM     *analyzer.Config      `yaml:"llm"`
	Linear  *linear.Config        `yaml:"linear"`
	Logging *logging.Config       `yaml:"logging"`
	Digest  *gateway.DigestConfig `yaml:"digest"`
	// ProjectDescription is free-text context appended to analysis prompts.
	ProjectDescription string `yaml:"project_description"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Gateway: &gateway.Config{
			Host: "127.0.0.1",
			Port: 8080,
		},
		LLM:     analyzer.DefaultConfig(),
		Linear:  &linear.Config{},
		Logging: logging.DefaultConfig(),
		Digest:  gateway.DefaultDigestConfig(),
	}
}

// Load loads configuration from a file. Environment variables referenced
// as ${VAR} in the file are expanded before parsing, so secrets stay out
// of the file itself.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Return defaults if no config file
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfigPath returns the default configuration path
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".taskpilot", "config.yaml")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gateway == nil {
		return fmt.Errorf("gateway configuration is required")
	}
	if c.Gateway.Port < 1 || c.Gateway.Port > 65535 {
		return fmt.Errorf("invalid gateway port: %d", c.Gateway.Port)
	}
	if c.Linear == nil || c.Linear.APIKey == "" {
		return fmt.Errorf("linear api_key is required")
	}
	if c.Linear.TeamID == "" {
		return fmt.Errorf("linear team_id is required")
	}
	if c.LLM == nil || c.LLM.APIKey == "" {
		return fmt.Errorf("llm api_key is required")
	}
	return nil
}
