package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("expected model 'gemini-2.0-flash', got %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("expected api_key_env 'GEMINI_API_KEY', got %q", cfg.Gemini.APIKeyEnv)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.TopLocations != 5 {
		t.Errorf("expected top_locations 5, got %d", cfg.Analysis.TopLocations)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
gemini:
  model: gemini-1.5-pro
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("expected model 'gemini-1.5-pro', got %q", cfg.Gemini.Model)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Gemini.Endpoint != "https://generativelanguage.googleapis.com" {
		t.Errorf("expected default endpoint, got %q", cfg.Gemini.Endpoint)
	}
	if cfg.Gemini.MaxTokens != 512 {
		t.Errorf("expected default max_tokens, got %d", cfg.Gemini.MaxTokens)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Gemini.Model == "" {
		t.Error("expected model to be populated from file")
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
}
