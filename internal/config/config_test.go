package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gateway.Host != "127.0.0.1" || cfg.Gateway.Port != 8080 {
		t.Errorf("gateway defaults = %s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	}
	if cfg.LLM.Model == "" {
		t.Error("LLM model default missing")
	}
	if cfg.Digest.Enabled {
		t.Error("digest enabled by default")
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := writeConfig(t, `
version: "1.0"
gateway:
  host: 0.0.0.0
  port: 9000
  webhook_secret: hook-secret
llm:
  provider: openai
  api_key: llm-key
  model: gpt-4o
  max_tokens: 4096
  temperature: 0.1
linear:
  api_key: lin-key
  team_id: team-9
  project_id: proj-9
project_description: internal billing service
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gateway.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Gateway.Port)
	}
	if cfg.Gateway.WebhookSecret != "hook-secret" {
		t.Errorf("WebhookSecret = %s", cfg.Gateway.WebhookSecret)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.MaxTokens != 4096 {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Linear.TeamID != "team-9" {
		t.Errorf("TeamID = %s", cfg.Linear.TeamID)
	}
	if cfg.ProjectDescription != "internal billing service" {
		t.Errorf("ProjectDescription = %s", cfg.ProjectDescription)
	}
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_LINEAR_KEY", "expanded-key")
	path := writeConfig(t, `
linear:
  api_key: ${TEST_LINEAR_KEY}
  team_id: team-1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Linear.APIKey != "expanded-key" {
		t.Errorf("APIKey = %s, want expanded-key", cfg.Linear.APIKey)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "gateway: [not: a: mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Linear.APIKey = "k"
		cfg.Linear.TeamID = "t"
		cfg.LLM.APIKey = "k"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg := valid()
	cfg.Gateway.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("invalid port accepted")
	}

	cfg = valid()
	cfg.Linear.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing linear api_key accepted")
	}

	cfg = valid()
	cfg.Linear.TeamID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing team_id accepted")
	}

	cfg = valid()
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing llm api_key accepted")
	}
}
